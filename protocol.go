package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin     = "join"     // join a session
	MsgLeave    = "leave"    // leave the current session
	MsgCreate   = "create"   // create a session
	MsgList     = "list"     // list sessions
	MsgCheck    = "check"    // check if a session exists
	MsgInput    = "input"    // buffered turn
	MsgPause    = "pause"    // pause the run
	MsgResume   = "resume"   // resume the run
	MsgContinue = "continue" // rebuild the level after death
	MsgRestart  = "restart"  // full reset to level one
	MsgSpeed    = "speed"    // rebase the run speed
	MsgRegister = "register" // create an account
	MsgLogin    = "login"    // log into an account
	MsgAuth     = "auth"     // resume an account from a stored token
	MsgProfile  = "profile"  // fetch own profile
	MsgBoard    = "board"    // fetch the leaderboard
	MsgStore    = "store"    // fetch the skin catalog
	MsgBuy      = "buy"      // buy a skin
	MsgSkin     = "skin"     // equip a skin
)

// Server -> Client message types
const (
	MsgWelcome     = "welcome"     // join confirmed, full board snapshot
	MsgState       = "state"       // run scalars changed
	MsgScore       = "score"       // score changed
	MsgDeath       = "death"       // snake down
	MsgLevel       = "level"       // level changed
	MsgOver        = "gameover"    // run finished
	MsgUpgrade     = "upgrade"     // bonus picked up
	MsgUpgradeLost = "upgradelost" // upgrade consumed or stripped
	MsgPoisoned    = "poisoned"    // hazard touched
	MsgSessions    = "sessions"    // session list
	MsgCreated     = "created"     // session created, client should navigate
	MsgChecked     = "checked"     // session check response
	MsgError       = "error"
	MsgAuthOK      = "authok"      // register/login confirmed
	MsgProfileData = "profiledata" // profile response
	MsgBoardData   = "boarddata"   // leaderboard response
	MsgStoreData   = "storedata"   // catalog response
	MsgBought      = "bought"      // purchase confirmed
	MsgSkinOK      = "skinok"      // equip confirmed
	MsgAchievement = "achievement" // achievement unlocked
)

// FrameMarker prefixes binary websocket messages: one marker byte followed
// by a msgpack-encoded []CellOp patch. Everything else on the socket is a
// JSON Envelope.
const FrameMarker byte = 0xFF

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids
// double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// JoinMsg asks to enter a session; the token is optional and binds the run
// to an account
type JoinMsg struct {
	SessionID string `json:"sid"`
	Token     string `json:"tok,omitempty"`
}

// CreateMsg asks for a new session
type CreateMsg struct {
	Name  string `json:"name"`
	Token string `json:"tok,omitempty"`
}

// InputMsg buffers one turn
type InputMsg struct {
	Turn string `json:"turn"`
}

// SpeedMsg rebases the run speed
type SpeedMsg struct {
	Speed int `json:"speed"`
}

// StateMsg carries the run scalars; sent whenever one of them changes
type StateMsg struct {
	Phase string `json:"ph"`
	Score int    `json:"sc"`
	Lives int    `json:"lv"`
	Level int    `json:"l"`
	Speed int    `json:"sp"`
	Dead  bool   `json:"dead,omitempty"`
}

// WelcomeMsg confirms a join with the board geometry, a full repaint and
// the current scalars
type WelcomeMsg struct {
	SessionID string   `json:"sid"`
	Runner    bool     `json:"run"` // false = spectating
	W         int      `json:"w"`
	H         int      `json:"h"`
	Board     []CellOp `json:"board"`
	State     StateMsg `json:"st"`
}

// ScoreMsg reports a score change
type ScoreMsg struct {
	Score int `json:"s"`
	Delta int `json:"d"`
}

// DeathMsg reports the snake going down
type DeathMsg struct {
	Cause string `json:"c"`
	Lives int    `json:"l"`
}

// LevelMsg reports a level change
type LevelMsg struct {
	Index int    `json:"i"`
	Name  string `json:"n,omitempty"`
}

// OverMsg reports the end of a run
type OverMsg struct {
	Score int  `json:"s"`
	Won   bool `json:"w"`
	XP    int  `json:"xp,omitempty"` // granted to the account, if any
}

// UpgradeMsg reports a bonus or hazard touch
type UpgradeMsg struct {
	Type string `json:"t"`
	Held int    `json:"h,omitempty"`
}

// SessionInfo is one row of the session list
type SessionInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phase      string `json:"phase"`
	Spectators int    `json:"spec"`
}

// CheckMsg asks whether a session exists
type CheckMsg struct {
	SID string `json:"sid"`
}

// CheckedMsg is the response to a session check
type CheckedMsg struct {
	SID    string `json:"sid"`
	Exists bool   `json:"exists"`
	Name   string `json:"name,omitempty"`
	Phase  string `json:"phase,omitempty"`
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// AuthMsg registers or logs into an account
type AuthMsg struct {
	User string `json:"user"`
	Pass string `json:"pass"`
}

// TokenMsg returns a signed token after register/login
type TokenMsg struct {
	Token string `json:"token"`
	User  string `json:"user"`
	XP    int    `json:"xp"`
	Level int    `json:"level"`
}

// ProfileMsg is the profile response
type ProfileMsg struct {
	User         string   `json:"user"`
	XP           int      `json:"xp"`
	Level        int      `json:"level"`
	Runs         int      `json:"runs"`
	Wins         int      `json:"wins"`
	BestScore    int      `json:"best"`
	Eaten        int      `json:"eaten"`
	Deaths       int      `json:"deaths"`
	Coins        int      `json:"coins"`
	Skin         string   `json:"skin,omitempty"`
	Skins        []string `json:"skins,omitempty"`
	Achievements []string `json:"ach,omitempty"`
}

// BoardMsg is the leaderboard response
type BoardMsg struct {
	By   string     `json:"by"`
	Rows []BoardRow `json:"rows"`
}

// BoardRow is one leaderboard entry
type BoardRow struct {
	User  string `json:"user"`
	Best  int    `json:"best"`
	Runs  int    `json:"runs"`
	Wins  int    `json:"wins"`
	XP    int    `json:"xp"`
	Level int    `json:"level"`
}

// BoardReq selects the leaderboard ordering
type BoardReq struct {
	By string `json:"by,omitempty"` // best, xp, runs or wins
}

// StoreMsg is the catalog response
type StoreMsg struct {
	Coins int            `json:"coins"`
	Items []StoreItemMsg `json:"items"`
}

// StoreItemMsg is one catalog entry
type StoreItemMsg struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
	Fill  string `json:"fill"`
	Owned bool   `json:"owned,omitempty"`
}

// BuyMsg buys or equips a skin by id
type BuyMsg struct {
	ID string `json:"id"`
}

// AchievementMsg announces an unlock
type AchievementMsg struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc,omitempty"`
}
