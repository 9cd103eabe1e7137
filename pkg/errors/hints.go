package errors

// hints maps error codes to the remediation text shown next to a failure.
var hints = map[ErrorCode]string{
	ErrInvalidIdentifier:     "choose a name that contains at least one letter or digit",
	ErrAlreadyInstalled:      "an application with this name is already installed - use update instead, or install with --as-new",
	ErrNotFound:              "no application with this id is installed - run 'lbi list' to see installed ids",
	ErrSourceUnreadable:      "check that the selected file exists and is readable",
	ErrDestinationUnwritable: "check permissions of the install root and the applications directory",
	ErrInsufficientSpace:     "free some disk space and retry; nothing was changed",
	ErrRegistryCorrupt:       "the registry could not be read - repair it by hand or run 'lbi registry reset'",
	ErrLockContention:        "another lbi operation is in progress - wait for it to finish and retry",
	ErrConfigLoad:            "check the configuration file and LBI_* environment variables",
	ErrConfigParse:           "check the configuration file syntax",
}

// Hint returns the remediation hint for the error's code, or an empty
// string when the code has none.
func Hint(err error) string {
	return hints[GetErrorCode(err)]
}

// Codes returns every code that carries a remediation hint.
func Codes() []ErrorCode {
	return []ErrorCode{
		ErrInvalidIdentifier,
		ErrAlreadyInstalled,
		ErrNotFound,
		ErrSourceUnreadable,
		ErrDestinationUnwritable,
		ErrInsufficientSpace,
		ErrRegistryCorrupt,
		ErrLockContention,
		ErrConfigLoad,
		ErrConfigParse,
	}
}
