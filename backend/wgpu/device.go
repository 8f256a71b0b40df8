// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/wgpu/core"
	types "github.com/gogpu/gputypes"
)

// GPUInfo contains information about the selected GPU.
type GPUInfo struct {
	// Name is the GPU name (e.g., "NVIDIA GeForce RTX 3080").
	Name string
	// Vendor is the GPU vendor.
	Vendor string
	// DeviceType is the type of GPU (discrete, integrated, etc.).
	DeviceType types.DeviceType
	// Backend is the graphics API in use (Vulkan, Metal, DX12).
	Backend types.Backend
	// Driver is the driver version string.
	Driver string
}

// String returns a human-readable description of the GPU.
func (g *GPUInfo) String() string {
	return fmt.Sprintf("%s (%s, %s)", g.Name, g.DeviceType, g.Backend)
}

func getGPUInfo(adapterID core.AdapterID) (*GPUInfo, error) {
	info, err := core.GetAdapterInfo(adapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get adapter info: %w", err)
	}
	return &GPUInfo{
		Name:       info.Name,
		Vendor:     info.Vendor,
		DeviceType: info.DeviceType,
		Backend:    info.Backend,
		Driver:     info.Driver,
	}, nil
}

func logGPUInfo(log *slog.Logger, adapterID core.AdapterID) {
	info, err := getGPUInfo(adapterID)
	if err != nil {
		log.Warn("wgpu: failed to get GPU info", "err", err)
		return
	}
	log.Info("wgpu: GPU selected", "gpu", info.String(), "driver", info.Driver)
}

// createDevice creates a logical device from an adapter.
func createDevice(adapterID core.AdapterID, label string) (core.DeviceID, error) {
	desc := &types.DeviceDescriptor{
		Label:            label,
		RequiredFeatures: nil,
		RequiredLimits:   types.DefaultLimits(),
	}
	deviceID, err := core.RequestDevice(adapterID, desc)
	if err != nil {
		return core.DeviceID{}, fmt.Errorf("failed to create device: %w", err)
	}
	return deviceID, nil
}

func getDeviceQueue(deviceID core.DeviceID) (core.QueueID, error) {
	queueID, err := core.GetDeviceQueue(deviceID)
	if err != nil {
		return core.QueueID{}, fmt.Errorf("failed to get device queue: %w", err)
	}
	return queueID, nil
}

func releaseDevice(deviceID core.DeviceID) error {
	if deviceID.IsZero() {
		return nil
	}
	if err := core.DeviceDrop(deviceID); err != nil {
		return fmt.Errorf("failed to release device: %w", err)
	}
	return nil
}

func releaseAdapter(adapterID core.AdapterID) error {
	if adapterID.IsZero() {
		return nil
	}
	if err := core.AdapterDrop(adapterID); err != nil {
		return fmt.Errorf("failed to release adapter: %w", err)
	}
	return nil
}

// logDeviceLimits records the limits relevant to surface textures.
func logDeviceLimits(log *slog.Logger, deviceID core.DeviceID) {
	limits, err := core.GetDeviceLimits(deviceID)
	if err != nil {
		log.Warn("wgpu: failed to get device limits", "err", err)
		return
	}
	log.Debug("wgpu: device limits",
		"maxTextureDimension2D", limits.MaxTextureDimension2D,
		"maxBufferSize", limits.MaxBufferSize)
}
