package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	DBConnError     = 3
	CopyError       = 4
	ConvertError    = 5
	PartialSuccess  = 6 // some inputs rendered as the sentinel
)
