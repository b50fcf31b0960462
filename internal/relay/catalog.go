package relay

// Rooms is the fixed channel catalog handed to clients on auth.
// Rooms are not created or destroyed at runtime.
var Rooms = []string{"general", "random", "help"}

// DefaultRoom receives messages sent without an explicit room.
const DefaultRoom = "general"
