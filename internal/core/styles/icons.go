package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

// Toast variant icons.
var (
	IconNotifyInfo    = "\uf05a" // 
	IconNotifySuccess = "\uf058" // 
	IconNotifyWarning = "\uf071" // 
	IconNotifyError   = "\uf057" // 
)

var (
	IconBell    = "\uf0f3" // 
	IconHistory = "\uf1da" // 
	IconPin     = "\uf08d" // 
	IconAction  = "\uf0a9" // 
)
