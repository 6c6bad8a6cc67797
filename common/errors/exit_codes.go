package errors

type ExitCode int

const (
	// Usage errors: missing or conflicting arguments, bad local input.
	UsageExitCode ExitCode = 1

	// Local configuration could not be read or written.
	ConfigFailureExitCode ExitCode = 10

	// Request never got a response (connection refused, timeout, ...).
	RequestFailureExitCode ExitCode = 20

	// Server answered with a non-2xx status.
	ClientErrorStatusExitCode ExitCode = 40
	ServerErrorStatusExitCode ExitCode = 50

	// Response arrived but could not be handled (bad JSON, broken zip, ...).
	PostProcessingFailureExitCode ExitCode = 100
)
