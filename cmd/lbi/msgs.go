package lbi

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Install standalone executables as desktop applications"
	MsgInstallShort    = "Install an executable and add it to the application menu"
	MsgUpdateShort     = "Change an installed application"
	MsgUninstallShort  = "Remove an installed application and its files"
	MsgListShort       = "List installed applications"
	MsgStatusShort     = "Show an application's record and the state of its files"
	MsgReconcileShort  = "Repair the registry and remove orphaned files"
	MsgRegistryShort   = "Registry maintenance"
	MsgResetShort      = "Move a corrupt registry aside and start over"
	MsgGenConfigShort  = "Print or write a configuration file"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate the man page"

	// Status messages
	MsgResetDoneFormat = "Registry moved to %s; the next command removes orphaned files."
	MsgResetNothing    = "There is no registry to reset."
	MsgConfigWritten   = "Configuration written to %s"

	// Error messages
	MsgErrResetNeedsForce = "registry reset forgets every installed application; rerun with --force"
	MsgErrConfigExists    = "%s already exists; rerun with --force to overwrite it"
	MsgErrNoCommand       = "no command specified"
	MsgErrDesktopTemplate = "failed to read desktop entry template %s"
	MsgErrIconAndNoIcon   = "--icon and --no-icon cannot be combined"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat       = "Output format: auto, term, text, json or yaml"
	MsgFlagRoot         = "Install root (default ~/Software/LinuxBinaryInstaller)"
	MsgFlagConfig       = "Configuration file (default $XDG_CONFIG_HOME/lbi/config.toml)"
	MsgFlagBackend      = "Registry backend: json or sqlite"
	MsgFlagName         = "Display name shown in the menu"
	MsgFlagIcon         = "Icon file (png, svg, xpm, ico)"
	MsgFlagNoIcon       = "Remove the icon and use the generic one"
	MsgFlagCategory     = "Menu category, repeatable or comma separated"
	MsgFlagTerminal     = "Run the program in a terminal"
	MsgFlagAcceptsFiles = "Pass opened files to the program (%F)"
	MsgFlagComment      = "Tooltip text"
	MsgFlagGenericName  = "Generic name, such as \"Web Browser\""
	MsgFlagKeyword      = "Search keyword, repeatable or comma separated"
	MsgFlagWMClass      = "StartupWMClass used to match windows to the launcher"
	MsgFlagShortcut     = "Also place a launcher on the Desktop"
	MsgFlagAsNew        = "Install under a new id if the name is already taken"
	MsgFlagFromDesktop  = "Take missing metadata from an existing .desktop file"
	MsgFlagSource       = "Replace the installed executable with this file"
	MsgFlagDiff         = "Show how the desktop entry changed"
	MsgFlagForceReset   = "Confirm that the registry should be reset"
	MsgFlagWriteConfig  = "Write the file instead of printing it"
	MsgFlagForceConfig  = "Overwrite an existing configuration file"
	MsgFlagEffective    = "Print active values instead of a commented template"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/install-long.txt
	msgInstallLongRaw string
	MsgInstallLong    = strings.TrimSpace(msgInstallLongRaw)

	//go:embed msgs/install-example.txt
	msgInstallExampleRaw string
	MsgInstallExample    = strings.TrimRight(msgInstallExampleRaw, "\n")

	//go:embed msgs/update-long.txt
	msgUpdateLongRaw string
	MsgUpdateLong    = strings.TrimSpace(msgUpdateLongRaw)

	//go:embed msgs/update-example.txt
	msgUpdateExampleRaw string
	MsgUpdateExample    = strings.TrimRight(msgUpdateExampleRaw, "\n")

	//go:embed msgs/reconcile-long.txt
	msgReconcileLongRaw string
	MsgReconcileLong    = strings.TrimSpace(msgReconcileLongRaw)

	//go:embed msgs/reset-long.txt
	msgResetLongRaw string
	MsgResetLong    = strings.TrimSpace(msgResetLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
