package l1

// DeviceRef identifies a device running the receive loop.
type DeviceRef struct {
	// Type is the device type, e.g. "uartpump".
	Type string
	// ID is unique ID of the device.
	ID string
}

// Name retrieves the name from ref, also used as the topic prefix.
func (r DeviceRef) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid indicates DeviceRef is valid.
func (r DeviceRef) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// DeviceMeta provides metadata of a device.
type DeviceMeta struct {
	Description string            `json:"description,omitempty"`
	Port        string            `json:"port,omitempty"`
	Capacity    int               `json:"capacity,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// DeviceInfo provides information of a device.
type DeviceInfo struct {
	Ref  DeviceRef
	Meta DeviceMeta
}
