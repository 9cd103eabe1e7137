package engine

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// interpreters maps script extensions to the command that runs them when
// the file has no shebang line.
var interpreters = map[string]string{
	".py":   "python3",
	".py3":  "python3",
	".pyw":  "python3",
	".sh":   "bash",
	".bash": "bash",
	".zsh":  "zsh",
}

// DetectInterpreter returns the command Exec should run path through, or
// "" when the file is run directly (shebang present or unknown type).
func DetectInterpreter(fs afero.Fs, path string) string {
	interp, ok := interpreters[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return ""
	}
	f, err := fs.Open(path)
	if err != nil {
		return interp
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, 2)
	if n, _ := io.ReadFull(f, head); n == 2 && string(head) == "#!" {
		return ""
	}
	return interp
}
