package main

import (
	"testing"

	"github.com/DoyleJ11/hanabot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	cases := []struct {
		name    string
		argv    []string
		want    args
		wantErr bool
	}{
		{name: "defaults", argv: nil, want: args{N: 1, ConfigPath: "config.json"}},
		{name: "create named table", argv: []string{"-n", "3", "-c", "-t", "fun"}, want: args{N: 3, Create: true, Table: "fun", ConfigPath: "config.json", nSet: true}},
		{name: "users", argv: []string{"--user", "a", "--user", "b", "-f", "alice", "-p", "pw"}, want: args{N: 1, Users: []string{"a", "b"}, FollowUser: "alice", Password: "pw", ConfigPath: "config.json"}},
		{name: "too many bots", argv: []string{"-n", "7"}, wantErr: true},
		{name: "n and user", argv: []string{"-n", "2", "--user", "a"}, wantErr: true},
		{name: "create and follow", argv: []string{"-c", "-f", "alice"}, wantErr: true},
		{name: "table and follow", argv: []string{"-t", "x", "-f", "alice"}, wantErr: true},
		{name: "stray argument", argv: []string{"go"}, wantErr: true},
		{name: "unknown flag", argv: []string{"--fast"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseArgs(tc.argv)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBotNames(t *testing.T) {
	cfg := &config.Config{DefaultBots: []string{"b1", "b2", "b3"}}

	names, err := args{N: 2}.botNames(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b2"}, names)

	names, err = args{N: 1, Users: []string{"x"}}.botNames(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, names)

	_, err = args{N: 4}.botNames(cfg)
	assert.Error(t, err)
}
