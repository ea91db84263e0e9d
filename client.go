package main

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 50
	maxSessionName    = 30
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	sessionID  string
	isRunner   bool
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
	// Auth state
	authPlayerID int64  // 0 = unauthenticated/guest
	authUsername string // "" = unauthenticated
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug("ws read failed", zap.String("addr", c.remoteAddr), zap.Error(err))
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			c.hub.log.Warn("rate limit exceeded, disconnecting", zap.String("addr", c.remoteAddr))
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// FrameMarker prefix = frame patch, goes out as a binary message
			var err error
			if len(message) > 0 && message[0] == FrameMarker {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.hub.log.Error("marshal failed", zap.Error(err))
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// Prefixes with FrameMarker so WritePump can tell it from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = FrameMarker
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendError(text string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: text}})
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.hub.log.Debug("unmarshal failed", zap.String("addr", c.remoteAddr), zap.Error(err))
		return
	}

	switch env.T {
	case MsgList:
		c.handleList()
	case MsgCreate:
		c.handleCreate(env.D)
	case MsgJoin:
		c.handleJoin(env.D)
	case MsgLeave:
		c.handleLeave()
	case MsgCheck:
		c.handleCheck(env.D)
	case MsgInput:
		c.handleInput(env.D)
	case MsgPause:
		c.handlePause()
	case MsgResume:
		c.handleResume()
	case MsgContinue:
		c.handleContinue()
	case MsgRestart:
		c.handleRestart()
	case MsgSpeed:
		c.handleSpeed(env.D)
	case MsgRegister:
		c.handleRegister(env.D)
	case MsgLogin:
		c.handleLogin(env.D)
	case MsgAuth:
		c.handleAuth(env.D)
	case MsgProfile:
		c.handleProfile()
	case MsgBoard:
		c.handleBoard(env.D)
	case MsgStore:
		c.handleStore()
	case MsgBuy:
		c.handleBuy(env.D)
	case MsgSkin:
		c.handleSkin(env.D)
	}
}

// session returns the client's current session, if it still exists
func (c *Client) session() *Session {
	if c.sessionID == "" {
		return nil
	}
	return c.hub.sessions.GetSession(c.sessionID)
}

// applyToken restores auth state from a token carried on join/create
func (c *Client) applyToken(token string) {
	if token == "" || c.authPlayerID != 0 {
		return
	}
	id, user, err := c.hub.auth.ValidateToken(token)
	if err != nil {
		return
	}
	c.authPlayerID = id
	c.authUsername = user
	c.hub.SetOnline(id, c)
}

func (c *Client) handleList() {
	sessions := c.hub.sessions.ListSessions()
	c.SendJSON(Envelope{T: MsgSessions, Data: sessions})
}

func (c *Client) handleCreate(data json.RawMessage) {
	var msg CreateMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	c.applyToken(msg.Token)

	name := msg.Name
	if name == "" {
		name = "Garden"
	}
	if len(name) > maxSessionName {
		name = name[:maxSessionName]
	}

	sess, err := c.hub.sessions.CreateSession(name, c.hub)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.hub.analytics.Track(EvtSessionStart, c.authPlayerID, sess.ID, "")
	c.SendJSON(Envelope{T: MsgCreated, Data: map[string]string{"sid": sess.ID}})
}

func (c *Client) handleJoin(data json.RawMessage) {
	var msg JoinMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	c.applyToken(msg.Token)

	sess := c.hub.sessions.GetSession(msg.SessionID)
	if sess == nil {
		c.sendError("session not found")
		return
	}
	if c.sessionID != "" && c.sessionID != sess.ID {
		c.handleLeave()
	}

	runner := sess.Join(c)
	c.sessionID = sess.ID
	c.isRunner = runner

	// A signed-in runner plays in their equipped skin
	if runner && c.authPlayerID != 0 {
		if stats, err := c.hub.db.GetStats(c.authPlayerID); err == nil && stats != nil && stats.Skin != "" {
			fill, head := SkinFills(stats.Skin)
			sess.game.SetPlayerStyle(fill, head)
		}
	}

	c.SendJSON(Envelope{T: MsgWelcome, Data: sess.welcome(runner)})
}

func (c *Client) handleLeave() {
	if sess := c.session(); sess != nil {
		sess.Leave(c)
	}
	c.sessionID = ""
	c.isRunner = false
}

func (c *Client) handleCheck(data json.RawMessage) {
	var msg CheckMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.SID)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{SID: msg.SID, Exists: false}})
		return
	}
	c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{
		SID:    msg.SID,
		Exists: true,
		Name:   sess.Name,
		Phase:  sess.game.Phase().String(),
	}})
}

func (c *Client) handleInput(data json.RawMessage) {
	var msg InputMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	h, ok := ParseHeading(msg.Turn)
	if !ok {
		return
	}
	sess := c.session()
	if sess == nil || !sess.RunnerIs(c) {
		return
	}
	sess.Touch()
	sess.game.Turn(h)
}

func (c *Client) handlePause() {
	sess := c.session()
	if sess == nil || !sess.RunnerIs(c) {
		return
	}
	sess.Touch()
	sess.game.Pause()
}

func (c *Client) handleResume() {
	sess := c.session()
	if sess == nil || !sess.RunnerIs(c) {
		return
	}
	sess.Touch()
	fresh := sess.game.Phase() == PhaseIdle
	if err := sess.game.Start(); err != nil {
		c.sendError(err.Error())
		return
	}
	if fresh {
		c.hub.analytics.Track(EvtRunStart, c.authPlayerID, sess.ID, "")
	}
}

// handleContinue rebuilds the level after a death and resumes the run
func (c *Client) handleContinue() {
	sess := c.session()
	if sess == nil || !sess.RunnerIs(c) {
		return
	}
	if !sess.game.PlayerDead() {
		return
	}
	sess.Touch()
	if err := sess.game.ReplayLevel(); err != nil {
		c.sendError(err.Error())
		return
	}
	if err := sess.game.Start(); err != nil {
		c.sendError(err.Error())
	}
}

func (c *Client) handleRestart() {
	sess := c.session()
	if sess == nil || !sess.RunnerIs(c) {
		return
	}
	sess.Touch()
	if err := sess.ResetRun(); err != nil {
		c.sendError(err.Error())
	}
}

func (c *Client) handleSpeed(data json.RawMessage) {
	var msg SpeedMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.session()
	if sess == nil || !sess.RunnerIs(c) {
		return
	}
	sess.Touch()
	sess.game.SetSpeed(msg.Speed)
}

func (c *Client) handleRegister(data json.RawMessage) {
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Register(msg.User, msg.Pass)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.User
	c.hub.SetOnline(id, c)
	c.hub.analytics.Track(EvtRegister, id, c.sessionID, "")
	c.SendJSON(Envelope{T: MsgAuthOK, Data: TokenMsg{
		Token: token,
		User:  msg.User,
		XP:    0,
		Level: 1,
	}})
}

func (c *Client) handleLogin(data json.RawMessage) {
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Login(msg.User, msg.Pass, c.remoteAddr)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	if c.hub.IsOnline(id) && c.hub.GetOnlineClient(id) != c {
		c.sendError("account already connected")
		return
	}
	c.finishAuth(id, msg.User, token)
}

// handleAuth restores a returning account from a stored token
func (c *Client) handleAuth(data json.RawMessage) {
	var msg TokenMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, user, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil {
		c.sendError("invalid token")
		return
	}
	if c.hub.IsOnline(id) && c.hub.GetOnlineClient(id) != c {
		c.sendError("account already connected")
		return
	}
	c.finishAuth(id, user, msg.Token)
}

func (c *Client) finishAuth(id int64, user, token string) {
	c.authPlayerID = id
	c.authUsername = user
	c.hub.SetOnline(id, c)

	xp, level := 0, 1
	if stats, err := c.hub.db.GetStats(id); err == nil && stats != nil {
		xp, level = stats.XP, stats.Level
	}
	c.SendJSON(Envelope{T: MsgAuthOK, Data: TokenMsg{
		Token: token,
		User:  user,
		XP:    xp,
		Level: level,
	}})
}

func (c *Client) handleProfile() {
	if c.authPlayerID == 0 {
		c.sendError("not authenticated")
		return
	}
	stats, err := c.hub.db.GetStats(c.authPlayerID)
	if err != nil || stats == nil {
		c.sendError("profile not found")
		return
	}
	ach, _ := c.hub.db.GetAchievements(c.authPlayerID)
	skins, _ := c.hub.db.GetSkins(c.authPlayerID)
	c.SendJSON(Envelope{T: MsgProfileData, Data: ProfileMsg{
		User:         c.authUsername,
		XP:           stats.XP,
		Level:        stats.Level,
		Runs:         stats.Runs,
		Wins:         stats.Wins,
		BestScore:    stats.BestScore,
		Eaten:        stats.Eaten,
		Deaths:       stats.Deaths,
		Coins:        stats.Coins,
		Skin:         stats.Skin,
		Skins:        skins,
		Achievements: ach,
	}})
}

func (c *Client) handleBoard(data json.RawMessage) {
	var msg BoardReq
	if len(data) > 0 {
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
	}
	entries, err := c.hub.db.GetLeaderboard(msg.By, 10)
	if err != nil {
		c.sendError("leaderboard unavailable")
		return
	}
	rows := make([]BoardRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, BoardRow{
			User:  e.Username,
			Best:  e.Best,
			Runs:  e.Runs,
			Wins:  e.Wins,
			XP:    e.XP,
			Level: e.Level,
		})
	}
	c.SendJSON(Envelope{T: MsgBoardData, Data: BoardMsg{By: msg.By, Rows: rows}})
}

func (c *Client) handleStore() {
	coins := 0
	owned := make(map[string]bool)
	if c.authPlayerID != 0 {
		if stats, err := c.hub.db.GetStats(c.authPlayerID); err == nil && stats != nil {
			coins = stats.Coins
		}
		if skins, err := c.hub.db.GetSkins(c.authPlayerID); err == nil {
			for _, id := range skins {
				owned[id] = true
			}
		}
	}
	items := make([]StoreItemMsg, 0, len(StoreCatalog))
	for _, it := range StoreCatalog {
		items = append(items, StoreItemMsg{
			ID:    it.ID,
			Name:  it.Name,
			Price: it.Price,
			Fill:  string(it.Fill),
			Owned: owned[it.ID],
		})
	}
	c.SendJSON(Envelope{T: MsgStoreData, Data: StoreMsg{Coins: coins, Items: items}})
}

func (c *Client) handleBuy(data json.RawMessage) {
	if c.authPlayerID == 0 {
		c.sendError("not authenticated")
		return
	}
	var msg BuyMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	item, ok := StoreCatalogMap[msg.ID]
	if !ok {
		c.sendError("no such item")
		return
	}
	if has, err := c.hub.db.HasSkin(c.authPlayerID, item.ID); err != nil || has {
		c.sendError("already owned")
		return
	}
	paid, err := c.hub.db.SpendCoins(c.authPlayerID, item.Price)
	if err != nil || !paid {
		c.sendError("not enough coins")
		return
	}
	if err := c.hub.db.GrantSkin(c.authPlayerID, item.ID); err != nil {
		c.sendError("purchase failed")
		return
	}
	c.hub.analytics.Track(EvtPurchase, c.authPlayerID, c.sessionID, `{"item_id":"`+item.ID+`"}`)
	c.SendJSON(Envelope{T: MsgBought, Data: BuyMsg{ID: item.ID}})
}

// handleSkin equips an owned skin; an empty id goes back to the default
func (c *Client) handleSkin(data json.RawMessage) {
	if c.authPlayerID == 0 {
		c.sendError("not authenticated")
		return
	}
	var msg BuyMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if msg.ID != "" {
		has, err := c.hub.db.HasSkin(c.authPlayerID, msg.ID)
		if err != nil || !has {
			c.sendError("skin not owned")
			return
		}
	}
	if err := c.hub.db.EquipSkin(c.authPlayerID, msg.ID); err != nil {
		c.sendError("equip failed")
		return
	}
	if sess := c.session(); sess != nil && sess.RunnerIs(c) {
		fill, head := SkinFills(msg.ID)
		sess.game.SetPlayerStyle(fill, head)
	}
	c.SendJSON(Envelope{T: MsgSkinOK, Data: BuyMsg{ID: msg.ID}})
}
