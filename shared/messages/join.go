package messages

// Welcome is sent once to every new connection. Slot is 1 or 2 for players
// and 0 for observers.
type Welcome struct {
	PeerID      string `json:"peerId"`
	Slot        int    `json:"slot"`
	ServerName  string `json:"serverName"`
	TickRate    int    `json:"tickRate"`
	ControlMode string `json:"controlMode"`
}
