package capture

import "gocv.io/x/gocv"

// DeviceInfo describes a camera device that was successfully probed.
type DeviceInfo struct {
	ID     int
	Width  int
	Height int
}

// ListDevices probes device IDs 0 through maxID and returns the ones that
// can be opened and actually deliver a frame. Devices that open but never
// produce a frame are skipped.
func ListDevices(maxID int) []DeviceInfo {
	var devices []DeviceInfo

	for id := 0; id <= maxID; id++ {
		capture, err := gocv.OpenVideoCapture(id)
		if err != nil {
			continue
		}

		frame := gocv.NewMat()
		if ok := capture.Read(&frame); ok && !frame.Empty() {
			devices = append(devices, DeviceInfo{
				ID:     id,
				Width:  frame.Cols(),
				Height: frame.Rows(),
			})
		}
		frame.Close()
		capture.Close()
	}

	return devices
}
