package watcher

import (
	"testing"

	"github.com/pilebones/go-udev/netlink"
)

func TestBuildMatcher(t *testing.T) {
	m := newNetlinkMonitor("", nil, nil)
	matcher := m.buildMatcher()

	for _, action := range []netlink.KObjAction{netlink.ADD, netlink.REMOVE, netlink.CHANGE} {
		event := netlink.UEvent{Action: action, Env: map[string]string{"SUBSYSTEM": "block"}}
		if !matcher.Evaluate(event) {
			t.Errorf("expected matcher to accept %s", action)
		}
	}
	usb := netlink.UEvent{Action: netlink.ADD, Env: map[string]string{"SUBSYSTEM": "usb"}}
	if matcher.Evaluate(usb) {
		t.Error("expected matcher to reject non-block events")
	}
}

func TestHandleEventFiltersDevice(t *testing.T) {
	var got []string
	m := newNetlinkMonitor("/dev/mmcblk0", nil, func(devname string) { got = append(got, devname) })

	m.handleEvent(netlink.UEvent{Action: netlink.ADD, Env: map[string]string{}})
	m.handleEvent(netlink.UEvent{Action: netlink.ADD, Env: map[string]string{"DEVNAME": "/dev/sda"}})
	m.handleEvent(netlink.UEvent{Action: netlink.ADD, Env: map[string]string{"DEVNAME": "mmcblk0"}})
	m.handleEvent(netlink.UEvent{Action: netlink.REMOVE, Env: map[string]string{"DEVPATH": "/devices/platform/mmc0/block/mmcblk0/mmcblk0p1"}})

	want := []string{"/dev/mmcblk0", "/dev/mmcblk0p1"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestHandleEventWithoutDeviceFilter(t *testing.T) {
	calls := 0
	m := newNetlinkMonitor("", nil, func(string) { calls++ })
	m.handleEvent(netlink.UEvent{Action: netlink.ADD, Env: map[string]string{"DEVNAME": "/dev/sdc"}})
	if calls != 1 {
		t.Fatalf("expected any block device to trigger, got %d calls", calls)
	}
}

func TestMonitorStopIsSafe(t *testing.T) {
	var nilMonitor *netlinkMonitor
	nilMonitor.Stop()
	if nilMonitor.Running() {
		t.Fatal("nil monitor should not be running")
	}

	m := newNetlinkMonitor("/dev/sdb", nil, nil)
	m.Stop()
	m.Stop()
	if m.Running() {
		t.Fatal("unstarted monitor should not be running")
	}
}
