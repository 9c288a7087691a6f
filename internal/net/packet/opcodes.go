package packet

import "strconv"

// Client → server opcodes.
const (
	C_JOIN         byte = 1
	C_MOVE         byte = 2
	C_BUILD_MODE   byte = 3
	C_BUILD_SELECT byte = 4
	C_BUILD_ROTATE byte = 5
	C_BUILD_PLACE  byte = 6
	C_RESPAWN      byte = 7
	C_ATTACK       byte = 8
	C_RCON         byte = 9
	C_QUIT         byte = 10
)

// Server → client opcodes.
const (
	S_WELCOME          byte = 101
	S_MODEL_TABLE      byte = 102
	S_PLAYER_STATE     byte = 103
	S_PRINT            byte = 104
	S_STRUCTURE_SPAWN  byte = 105
	S_STRUCTURE_HEALTH byte = 106
	S_STRUCTURE_REMOVE byte = 107
	S_EVENT            byte = 108
)

// S_EVENT kinds.
const (
	EventPlace   byte = 1
	EventFail    byte = 2
	EventDestroy byte = 3
)

var opcodeNames = map[byte]string{
	C_JOIN:             "C_JOIN",
	C_MOVE:             "C_MOVE",
	C_BUILD_MODE:       "C_BUILD_MODE",
	C_BUILD_SELECT:     "C_BUILD_SELECT",
	C_BUILD_ROTATE:     "C_BUILD_ROTATE",
	C_BUILD_PLACE:      "C_BUILD_PLACE",
	C_RESPAWN:          "C_RESPAWN",
	C_ATTACK:           "C_ATTACK",
	C_RCON:             "C_RCON",
	C_QUIT:             "C_QUIT",
	S_WELCOME:          "S_WELCOME",
	S_MODEL_TABLE:      "S_MODEL_TABLE",
	S_PLAYER_STATE:     "S_PLAYER_STATE",
	S_PRINT:            "S_PRINT",
	S_STRUCTURE_SPAWN:  "S_STRUCTURE_SPAWN",
	S_STRUCTURE_HEALTH: "S_STRUCTURE_HEALTH",
	S_STRUCTURE_REMOVE: "S_STRUCTURE_REMOVE",
	S_EVENT:            "S_EVENT",
}

// OpcodeName is the log name of an opcode.
func OpcodeName(op byte) string {
	if n, ok := opcodeNames[op]; ok {
		return n
	}
	return "op" + strconv.Itoa(int(op))
}
