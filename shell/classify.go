package shell

import "hls/vga"

// Return codes shared by every command.
const (
	CodeSuccess       = 0
	CodeSelfRendered  = 1
	CodeGeneralError  = 2
	CodeCriticalError = 3
	CodeUserError     = 4
)

// ReturnCode is how the dispatcher reports a classified handler result.
type ReturnCode struct {
	Code    int
	Message string
	Color   vga.Color
}

var returnCodes = []ReturnCode{
	{Code: CodeSuccess, Message: "executed successfully", Color: vga.Green},
	{Code: CodeGeneralError, Message: "returned general error", Color: vga.Red},
	{Code: CodeCriticalError, Message: "returned critical error", Color: vga.Red},
	{Code: CodeUserError, Message: "returned user error", Color: vga.Red},
}

// Classify looks up code in the fixed return-code table. CodeSelfRendered is
// not in the table; the dispatcher handles it before classification.
func Classify(code int) (ReturnCode, bool) {
	for _, rc := range returnCodes {
		if rc.Code == code {
			return rc, true
		}
	}
	return ReturnCode{}, false
}
