package types

// InstallRequest is what a front-end hands to the engine to install a file.
type InstallRequest struct {
	SourcePath      string
	DisplayName     string
	IconPath        string
	Categories      []string
	Terminal        bool
	AcceptsFileArgs bool

	Comment        string
	GenericName    string
	Keywords       []string
	StartupWMClass string

	// DesktopShortcut also places a launcher on the user's Desktop.
	DesktopShortcut bool
	// AsNew disambiguates a colliding id with a numeric suffix instead of
	// failing with ALREADY_INSTALLED.
	AsNew bool
}

// UpdateRequest describes changes to an installed application. Nil
// fields are left unchanged.
type UpdateRequest struct {
	SourcePath      *string
	DisplayName     *string
	IconPath        *string
	RemoveIcon      bool
	Categories      []string
	Terminal        *bool
	AcceptsFileArgs *bool

	Comment        *string
	GenericName    *string
	Keywords       []string
	StartupWMClass *string

	DesktopShortcut *bool
}

// IsEmpty reports whether the request changes nothing.
func (u UpdateRequest) IsEmpty() bool {
	return u.SourcePath == nil && u.DisplayName == nil && u.IconPath == nil &&
		!u.RemoveIcon && u.Categories == nil && u.Terminal == nil &&
		u.AcceptsFileArgs == nil && u.Comment == nil && u.GenericName == nil &&
		u.Keywords == nil && u.StartupWMClass == nil && u.DesktopShortcut == nil
}
