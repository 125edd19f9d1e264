package disk

import (
	"fmt"

	"github.com/jaypipes/ghw"
	"github.com/jaypipes/ghw/pkg/block"
	log "github.com/sirupsen/logrus"
)

// Device describes a whole block device and its partitions.
type Device struct {
	Name       string
	DeviceFile string
	SizeBytes  uint64
	Type       string
	Removable  bool
	Controller string
	Model      string
	Partitions []string
}

// List returns the block devices the host currently exposes.
func List() ([]Device, error) {
	info, err := ghw.Block()
	if err != nil {
		return nil, fmt.Errorf("Error getting block storage info: %v", err)
	}
	log.Debug("Retrieved Block Storage Info: ", info)
	return devicesFromBlock(info), nil
}

// Describe returns the block device with the given name.
func Describe(name string) (*Device, error) {
	devices, err := List()
	if err != nil {
		return nil, err
	}
	return findDevice(devices, name)
}

func devicesFromBlock(info *block.Info) []Device {
	if info == nil {
		return nil
	}
	devices := make([]Device, 0, len(info.Disks))
	for _, d := range info.Disks {
		log.Debug("Found Disk: ", d.Name)
		device := Device{
			Name:       d.Name,
			DeviceFile: "/dev/" + d.Name,
			SizeBytes:  d.SizeBytes,
			Type:       d.DriveType.String(),
			Removable:  d.IsRemovable,
			Controller: d.StorageController.String(),
			Model:      d.Model,
		}
		for _, p := range d.Partitions {
			device.Partitions = append(device.Partitions, p.Name)
		}
		devices = append(devices, device)
	}
	return devices
}

func findDevice(devices []Device, name string) (*Device, error) {
	for i := range devices {
		if devices[i].Name == name {
			return &devices[i], nil
		}
	}
	return nil, fmt.Errorf("block device %s not found", name)
}
