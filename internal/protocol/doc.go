// Package protocol encodes and decodes hanab.live lobby frames.
//
// A frame is "<command> <json>". Zero-field commands are the bare name.
//
// Client -> Server:
//
//	tableCreate  name (optional), maxPlayers, password (optional)
//	tableJoin    tableID, password (optional)
//	tableLeave   tableID
//	tableStart   tableID
//	chatPM       msg, recipient, room
//	getName      (none)
//
// Server -> Client:
//
//	welcome      userID, username, randomTableName
//	table        id, name, numPlayers, maxPlayers, running, ...
//	tableList    [table...]
//	tableGone    tableID
//	user         userID, name, status, tableID (0 when not seated)
//	userList     [user...]
//	userLeft     userID
//	chat         msg, who, recipient, room
//	joined       tableID
//	left         (none)
//	warning      warning
//	error        error
package protocol
