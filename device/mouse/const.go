package mouse

// Button bit masks for InputState.Buttons.
const (
	Btn_Left    = 0x01
	Btn_Right   = 0x02
	Btn_Middle  = 0x04
	Btn_Back    = 0x08
	Btn_Forward = 0x10
)

// ReportSize is the length of one encoded InputState on the device stream.
const ReportSize = 9
