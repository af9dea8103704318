package session

import (
	"errors"
	"strings"

	"github.com/DoyleJ11/hanabot/internal/protocol"
	"go.uber.org/zap"
)

// chatCommandPrefix marks a private message as a bot command.
const chatCommandPrefix = "/"

// onFrame decodes one server frame and reacts to it. Unknown commands and
// malformed frames are logged and skipped; a payload that does not parse,
// or an error event from the server, ends the session.
func (s *Session) onFrame(line string) error {
	m, err := s.events.DecodeFrame(line)
	switch {
	case errors.Is(err, protocol.ErrUnmatchedName):
		s.metrics.FrameUnmatched()
		s.log.Info("unhandled command", zap.Error(err))
		return nil
	case errors.Is(err, protocol.ErrMalformedFrame):
		s.metrics.DecodeFailed()
		s.log.Warn("skipping frame", zap.Error(err), zap.String("line", line))
		return nil
	case err != nil:
		s.metrics.DecodeFailed()
		return err
	}

	s.metrics.FrameReceived(m.CommandName())
	return s.react(m)
}

func (s *Session) react(m protocol.Message) error {
	switch ev := m.(type) {
	case protocol.Warning:
		s.log.Warn("server warning", zap.String("warning", ev.Message))

	case protocol.Error:
		return &ServerError{Message: ev.Message}

	case protocol.Welcome:
		s.log.Info("welcome",
			zap.Stringer("user_id", ev.UserID),
			zap.String("random_table_name", ev.RandomTableName))
		if ev.Username != "" {
			s.username = ev.Username
		}
		s.welcomed = true
		s.randomTableName = ev.RandomTableName
		pending := s.pendingCreates
		s.pendingCreates = nil
		for _, tc := range pending {
			s.createTable(tc)
		}

	case protocol.Name:
		s.log.Debug("name", zap.String("name", ev.Name))

	case protocol.User:
		s.store.UpsertUser(ev)
	case protocol.UserList:
		for _, u := range ev {
			s.store.UpsertUser(u)
		}
	case protocol.UserLeft:
		s.store.RemoveUser(ev.UserID)

	case protocol.Table:
		s.store.UpsertTable(ev)
	case protocol.TableList:
		for _, t := range ev {
			s.store.UpsertTable(t)
		}
	case protocol.TableGone:
		s.store.RemoveTable(ev.TableID)
	case protocol.TableStart:
		s.log.Info("table started", zap.Stringer("table_id", ev.TableID))

	case protocol.Chat:
		if ev.Recipient == s.username && strings.HasPrefix(ev.Msg, chatCommandPrefix) {
			s.chatCommand(ev.Who, strings.TrimPrefix(ev.Msg, chatCommandPrefix))
		}

	case protocol.Joined:
		s.store.SetCurrentTable(ev.TableID)
		s.log.Info("joined table", zap.Stringer("table_id", ev.TableID))
	case protocol.Left:
		s.store.ClearCurrentTable()
		s.log.Info("left table")

	default:
		s.log.Debug("ignored command", zap.String("command", m.CommandName()))
	}
	return nil
}
