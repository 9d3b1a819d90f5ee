package cmd

// Colors used by the styled command output.
const (
	colorCyan     = "#00FFFF"
	colorGreen    = "#00FF00"
	colorGray     = "#808080"
	colorWhite    = "#FFFFFF"
	colorYellow   = "#FFD700"
	colorCheckOK  = "#00D787"
	colorDarkGray = "#5F5F5F"
)
