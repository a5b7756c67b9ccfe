package cli

// ErrorCode defines error types for CLI operations
type ErrorCode string

const (
	InvalidArguments ErrorCode = "InvalidArguments"
	InvalidConfig    ErrorCode = "InvalidConfig"
	Unauthorized     ErrorCode = "Unauthorized"
	NoDrop           ErrorCode = "NoDrop"
	NoShareURL       ErrorCode = "NoShareURL"
	FileUnreadable   ErrorCode = "FileUnreadable"
	TitleUnavailable ErrorCode = "TitleUnavailable"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
