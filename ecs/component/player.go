package component

// Player holds controller tuning and the per-tick movement state.
type Player struct {
	MoveSpeed     float64
	JumpSpeed     float64
	DashSpeed     float64
	DashFrames    int
	DashCooldown  int
	CoyoteFrames  int
	MaxJumps      int
	Skin          string
	Dashing       int
	DashDir       float64
	Cooldown      int
	AirTime       int
	JumpsLeft     int
	FacingLeft    bool
	Dead          bool
	TutorialDash  bool
	TutorialEnemy bool
}

var PlayerComponent = NewComponent[Player]()
