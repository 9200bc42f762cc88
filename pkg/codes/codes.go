package codes

// Room level result codes. Engine level move rejections live in
// internal/model as resolver codes; these cover everything a client
// request can bounce off of before the resolver is even consulted.
const (
	SUCCESS int32 = 0

	NOT_YOUR_TURN    int32 = 1001 // actor is not the current player
	INVALID_PHASE    int32 = 1002 // action requested outside its legal stage
	ILLEGAL_MOVE     int32 = 1003 // movement resolver rejected the move
	UNKNOWN_PLAYER   int32 = 1004
	UNKNOWN_PAWN     int32 = 1005
	GAME_FINISHED    int32 = 1006
	DUEL_STATE       int32 = 1007 // duel action outside the duel's phase
	NOT_DISCONNECTED int32 = 1008 // forfeit claim without an expired countdown
	EVENT_MISMATCH   int32 = 1009 // event result for a different event kind

	ROOM_NOT_FOUND   int32 = 2001
	PLAYER_NOT_FOUND int32 = 2002
	BAD_REQUEST      int32 = 2003
)
