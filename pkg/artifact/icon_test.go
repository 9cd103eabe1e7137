package artifact

import (
	"testing"

	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIcon(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr bool
	}{
		{name: "valid_svg", file: "/i/app.svg", content: testutil.SVG},
		{name: "uppercase_ext", file: "/i/app.SVG", content: testutil.SVG},
		{name: "png_not_inspected", file: "/i/app.png", content: "\x89PNG garbage"},
		{name: "malformed_svg", file: "/i/bad.svg", content: "<svg><g></svg>", wantErr: true},
		{name: "wrong_root", file: "/i/html.svg", content: "<html></html>", wantErr: true},
		{name: "empty_svg", file: "/i/empty.svg", content: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, tt.file, []byte(tt.content), 0644))

			err := ValidateIcon(fs, tt.file)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrSourceUnreadable))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestIconExt(t *testing.T) {
	assert.Equal(t, ".png", IconExt("/a/b/Logo.PNG"))
	assert.Equal(t, "", IconExt("/a/b/logo"))
}
