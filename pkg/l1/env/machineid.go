package env

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// AppID is mixed into the machine id so that the raw id is not exposed.
const AppID = "uartpump"

// MachineID retrieves the unique ID identifying the machine.
// It returns an empty string if the id can't be determined.
func MachineID() string {
	id, err := machineid.ProtectedID(AppID)
	if err != nil {
		glog.Warningf("machine id: %v", err)
		return ""
	}
	if len(id) > 16 {
		id = id[:16]
	}
	return id
}
