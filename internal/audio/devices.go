package audio

import (
	"fmt"
	"sort"

	"github.com/gordonklaus/portaudio"
)

// Device is a PortAudio output device.
type Device struct {
	Name            string
	HostAPI         string
	Channels        int
	DefaultSampleHz float64
	IsDefault       bool
}

// ListOutputDevices returns devices that can play sound, sorted by host API
// and name.
func ListOutputDevices() ([]Device, error) {
	hosts, err := portaudio.HostApis()
	if err != nil {
		return nil, fmt.Errorf("host apis: %w", err)
	}

	defaultIndex := -1
	if def, err := portaudio.DefaultOutputDevice(); err == nil && def != nil {
		defaultIndex = def.Index
	}

	var devices []Device
	for _, host := range hosts {
		for _, d := range host.Devices {
			if d.MaxOutputChannels == 0 {
				continue
			}
			devices = append(devices, Device{
				Name:            d.Name,
				HostAPI:         host.Name,
				Channels:        d.MaxOutputChannels,
				DefaultSampleHz: d.DefaultSampleRate,
				IsDefault:       d.Index == defaultIndex,
			})
		}
	}

	sort.Slice(devices, func(i, j int) bool {
		if devices[i].HostAPI == devices[j].HostAPI {
			return devices[i].Name < devices[j].Name
		}
		return devices[i].HostAPI < devices[j].HostAPI
	})
	return devices, nil
}
