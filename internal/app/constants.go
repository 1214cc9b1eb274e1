package app

// Bot count limits for a new game; the human takes the remaining seat.
const (
	MinBots = 1
	MaxBots = 3
)

// HumanName is the display name of the human seat.
const HumanName = "You"

// Score changes applied when a game ends.
const (
	WinPoints  = 100
	LossPoints = 50
)

// Notices shown to the human.
const (
	NoticeYourTurn     = "YOUR TURN"
	NoticeBeaten       = "BEATEN!"
	NoticeTransfer     = "TRANSFER!"
	NoticeCantToss     = "CAN'T TOSS THAT"
	NoticeCantBeat     = "CAN'T BEAT WITH THAT"
	NoticeCantTransfer = "CAN'T TRANSFER"
	NoticeNotNow       = "NOT NOW"
	NoticeWin          = "YOU WIN! (+100)"
	NoticeLoss         = "YOU ARE THE FOOL! (-50)"
)
