package monitor

import "time"

type Status struct {
	Driver    string    `json:"driver"`
	Storage   bool      `json:"storage"`
	Snapshots int       `json:"snapshots"`
	LastCheck time.Time `json:"last_check"`
}
