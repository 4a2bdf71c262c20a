package app

import (
	"encoding/json"
	"errors"
	"log/slog"

	"hatgame/internal/domain"
	"hatgame/internal/protocol"
)

// Peer is the gateway's view of one connection: the transport handle plus
// the room and player it is currently bound to. A Peer is only touched by
// its connection's read loop.
type Peer struct {
	conn   Conn
	room   *RoomSession
	player string
	token  string
}

// NewPeer wraps a connection that is not yet in a room
func NewPeer(conn Conn) *Peer {
	return &Peer{conn: conn}
}

// RoomName returns the bound room, or "" when unbound
func (p *Peer) RoomName() string {
	if p.room == nil {
		return ""
	}
	return p.room.Name()
}

// PlayerName returns the bound player, or "" when unbound
func (p *Peer) PlayerName() string {
	return p.player
}

func (p *Peer) bind(room *RoomSession, res JoinResult) {
	p.room = room
	p.player = res.PlayerName
	p.token = res.SessionToken
}

func (p *Peer) unbind() {
	p.room = nil
	p.player = ""
	p.token = ""
}

// Gateway validates inbound messages, resolves the sender's room and player,
// and invokes the matching room operation.
type Gateway struct {
	registry *RoomRegistry
	sessions *SessionStore
	logger   *slog.Logger
}

// NewGateway creates a gateway
func NewGateway(registry *RoomRegistry, sessions *SessionStore, logger *slog.Logger) *Gateway {
	return &Gateway{
		registry: registry,
		sessions: sessions,
		logger:   logger,
	}
}

// HandleMessage processes one raw inbound frame
func (g *Gateway) HandleMessage(p *Peer, data []byte) {
	var msg protocol.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type == "" {
		g.sendError(p, protocol.ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case protocol.MsgJoinRoom:
		g.handleJoinRoom(p, msg.Payload)
	case protocol.MsgCheckSession:
		g.handleCheckSession(p, msg.Payload)
	case protocol.MsgAssignTeam:
		var payload protocol.AssignTeamPayload
		if g.decode(p, msg.Payload, &payload) {
			g.do(p, func(r *domain.Room) error {
				return r.AssignTeam(p.player, payload.PlayerID, payload.TeamName)
			})
		}
	case protocol.MsgJoinTeam:
		var payload protocol.JoinTeamPayload
		if g.decode(p, msg.Payload, &payload) {
			g.do(p, func(r *domain.Room) error {
				return r.JoinTeam(p.player, payload.TeamName)
			})
		}
	case protocol.MsgRandomizeTeams:
		var payload protocol.RandomizeTeamsPayload
		if g.decode(p, msg.Payload, &payload) {
			g.do(p, func(r *domain.Room) error {
				return r.RandomizeTeams(p.player, payload.TeamCount)
			})
		}
	case protocol.MsgLockTeams:
		g.do(p, func(r *domain.Room) error { return r.LockTeams(p.player) })
	case protocol.MsgSubmitWords:
		var payload protocol.SubmitWordsPayload
		if g.decode(p, msg.Payload, &payload) {
			g.do(p, func(r *domain.Room) error {
				return r.SubmitWords(p.player, payload.Words)
			})
		}
	case protocol.MsgStartGame:
		g.do(p, func(r *domain.Room) error { return r.StartGame(p.player) })
	case protocol.MsgDrawWord:
		g.do(p, func(r *domain.Room) error {
			_, err := r.DrawWord(p.player)
			return err
		})
	case protocol.MsgWordGuessed:
		g.do(p, func(r *domain.Room) error { return r.WordGuessed(p.player) })
	case protocol.MsgSkipWord:
		g.do(p, func(r *domain.Room) error { return r.SkipWord(p.player) })
	case protocol.MsgEndTurn:
		g.do(p, func(r *domain.Room) error { return r.EndTurn(p.player) })
	case protocol.MsgStartNextRound:
		g.do(p, func(r *domain.Room) error { return r.StartNextRound(p.player) })
	case protocol.MsgLeaveRoom:
		g.handleLeaveRoom(p)
	case protocol.MsgRequestGameState:
		if g.requireRoom(p) {
			g.report(p, p.room.SendState(p.player, p.conn))
		}
	case protocol.MsgSuggestWords:
		var payload protocol.SuggestWordsPayload
		if g.decode(p, msg.Payload, &payload) && g.requireRoom(p) {
			g.report(p, p.room.Suggest(p.player, p.conn, payload.Count))
		}
	case protocol.MsgPing:
		g.send(p, protocol.NewServerMessage(protocol.MsgPong, nil))
	default:
		g.sendError(p, protocol.ErrCodeInvalidMessage, "Unknown message type")
	}
}

// Disconnect tells the bound room that the connection dropped
func (g *Gateway) Disconnect(p *Peer) {
	if p.room == nil {
		return
	}
	p.room.Disconnect(p.player, p.conn)
	p.unbind()
}

func (g *Gateway) handleJoinRoom(p *Peer, raw json.RawMessage) {
	var payload protocol.JoinRoomPayload
	if !g.decode(p, raw, &payload) {
		return
	}

	room, created, err := g.registry.GetOrCreate(payload.RoomName)
	if err != nil {
		g.report(p, err)
		return
	}

	// Re-joining the room this connection already plays in just resends state
	if p.room == room {
		if name, err := domain.NormalizePlayerName(payload.PlayerName); err == nil && name == p.player {
			g.report(p, room.SendState(p.player, p.conn))
			return
		}
	}
	g.detach(p)

	res, err := room.Join(payload.PlayerName, p.conn)
	if errors.Is(err, domain.ErrRoomNotFound) {
		// The room was torn down between lookup and join
		room, created, err = g.registry.GetOrCreate(payload.RoomName)
		if err == nil {
			res, err = room.Join(payload.PlayerName, p.conn)
		}
	}
	if err != nil {
		if created {
			g.registry.DestroyIfEmpty(room.Name())
		}
		g.report(p, err)
		return
	}
	p.bind(room, res)
}

func (g *Gateway) handleCheckSession(p *Peer, raw json.RawMessage) {
	var payload protocol.CheckSessionPayload
	if !g.decode(p, raw, &payload) {
		return
	}

	session, err := g.sessions.Lookup(payload.SessionToken)
	if err != nil {
		g.sendSessionInvalid(p, "unknown session")
		return
	}

	room, err := g.registry.Get(session.RoomName)
	if err != nil {
		g.sessions.Revoke(session.Token)
		g.sendSessionInvalid(p, "room no longer exists")
		return
	}

	if p.room != room || p.player != session.PlayerName {
		g.detach(p)
	}

	res, err := room.Resume(session.PlayerName, session.Token, p.conn)
	if err != nil {
		if errors.Is(err, domain.ErrPlayerNotFound) || errors.Is(err, domain.ErrRoomNotFound) {
			g.sessions.Revoke(session.Token)
			g.sendSessionInvalid(p, "player is no longer in the room")
			return
		}
		g.report(p, err)
		return
	}
	p.bind(room, res)
}

func (g *Gateway) handleLeaveRoom(p *Peer) {
	if !g.requireRoom(p) {
		return
	}

	room, player, token := p.room, p.player, p.token
	removed, err := room.Leave(player, p.conn)
	if err != nil {
		g.report(p, err)
		return
	}
	p.unbind()

	if removed {
		g.sessions.Revoke(token)
		g.registry.DestroyIfEmpty(room.Name())
	}
}

// detach releases the connection's current binding before it joins
// somewhere else
func (g *Gateway) detach(p *Peer) {
	if p.room == nil {
		return
	}
	p.room.Disconnect(p.player, p.conn)
	p.unbind()
}

func (g *Gateway) do(p *Peer, op func(r *domain.Room) error) {
	if !g.requireRoom(p) {
		return
	}
	g.report(p, p.room.Do(p.player, p.conn, op))
}

func (g *Gateway) requireRoom(p *Peer) bool {
	if p.room == nil {
		g.sendError(p, protocol.ErrCodeNotInRoom, "Join a room first")
		return false
	}
	return true
}

func (g *Gateway) decode(p *Peer, raw json.RawMessage, v any) bool {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		g.sendError(p, protocol.ErrCodeInvalidMessage, "Invalid payload")
		return false
	}
	return true
}

// report turns an operation error into an error message for the sender
func (g *Gateway) report(p *Peer, err error) {
	if err == nil {
		return
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		g.logger.Error("unexpected error", "room", p.RoomName(), "player", p.player, "error", err)
		g.sendError(p, protocol.ErrCodeInternalError, "Something went wrong")
		return
	}

	switch de.Kind {
	case domain.KindInternal:
		g.logger.Error("invariant violation", "room", p.RoomName(), "player", p.player, "code", de.Code, "error", err)
	case domain.KindNotFound:
		if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrRoomNotFound) {
			if p.room != nil {
				p.unbind()
				g.sendSessionInvalid(p, de.Message)
			}
		}
	}

	g.sendError(p, de.Code, err.Error())
}

func (g *Gateway) sendSessionInvalid(p *Peer, reason string) {
	g.send(p, protocol.NewServerMessage(protocol.MsgSessionInvalid, &protocol.SessionInvalidPayload{Reason: reason}))
}

func (g *Gateway) sendError(p *Peer, code, message string) {
	g.send(p, protocol.NewServerMessage(protocol.MsgError, &protocol.ErrorPayload{
		Code:    code,
		Message: message,
	}))
}

func (g *Gateway) send(p *Peer, msg *protocol.ServerMessage) {
	if err := p.conn.Send(msg); err != nil {
		g.logger.Debug("failed to send to client", "conn", p.conn.ID(), "error", err)
	}
}
