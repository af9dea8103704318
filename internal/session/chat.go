package session

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/DoyleJ11/hanabot/internal/protocol"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// chatCommand runs a command a user sent the bot by private message, e.g.
// "/create -t fun -m 4". Problems are reported back to the sender.
func (s *Session) chatCommand(who, text string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return
	}
	name, args := fields[0], fields[1:]
	s.log.Info("chat command", zap.String("from", who), zap.String("command", name))

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var run func() error
	switch name {
	case "join":
		password := fs.StringP("password", "p", s.password, "table password")
		run = func() error { return s.chatJoin(who, *password) }
	case "leave":
		run = func() error {
			s.intents.Unfollow()
			if cur, ok := s.store.CurrentTable(); ok {
				s.send(protocol.TableLeave{TableID: cur})
			}
			return nil
		}
	case "create":
		tableName := fs.StringP("table-name", "t", "", "table name")
		maxPlayers := fs.IntP("max-players", "m", protocol.DefaultMaxPlayers, "seats, 2 to 6")
		password := fs.StringP("password", "p", s.password, "table password")
		run = func() error {
			if *maxPlayers < 2 || *maxPlayers > 6 {
				return fmt.Errorf("max players must be 2 to 6, got %d", *maxPlayers)
			}
			s.createTable(protocol.TableCreate{Name: *tableName, MaxPlayers: *maxPlayers, Password: *password})
			return nil
		}
	case "start":
		run = func() error {
			s.intents.Start()
			return nil
		}
	case "follow":
		run = func() error {
			s.intents.RegisterFollow(who)
			return nil
		}
	default:
		s.reply(who, fmt.Sprintf("unknown command /%s (try /join, /leave, /create, /start, /follow)", name))
		return
	}

	if err := fs.Parse(args); err != nil {
		s.reply(who, fmt.Sprintf("/%s: %v", name, err))
		return
	}
	if fs.NArg() > 0 {
		s.reply(who, fmt.Sprintf("/%s: unexpected arguments %q", name, fs.Args()))
		return
	}
	if err := run(); err != nil {
		s.reply(who, fmt.Sprintf("/%s: %v", name, err))
	}
}

// chatJoin seats the bot at the sender's table.
func (s *Session) chatJoin(who, password string) error {
	u, ok := s.store.UserByName(who)
	if !ok {
		return errors.New("I can't see you in the lobby")
	}
	id, seated := u.Seated()
	if !seated {
		return errors.New("you are not at a table")
	}
	s.send(protocol.TableJoin{TableID: id, Password: password})
	return nil
}

func (s *Session) reply(who, msg string) {
	s.send(protocol.ChatPM{Msg: msg, Recipient: who, Room: protocol.LobbyRoom})
}
