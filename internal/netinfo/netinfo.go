// Package netinfo reports host connectivity for the status strip.
package netinfo

import (
	"fmt"
	"net"
	"strings"

	psnet "github.com/shirou/gopsutil/v3/net"
)

// Info describes the interface the clock is reachable on.
type Info struct {
	Name    string `json:"name"`
	IP      string `json:"ip"`
	Up      bool   `json:"up"`
	RxBytes uint64 `json:"rxBytes"`
	TxBytes uint64 `json:"txBytes"`
}

// Offline is returned when no usable interface exists.
var Offline = Info{IP: "0.0.0.0"}

// Summary is the first status line.
func (i Info) Summary() string {
	if !i.Up {
		return "NET: OFFLINE"
	}
	return fmt.Sprintf("NET: %s  IP: %s", i.Name, i.IP)
}

// Probe picks the first up, non-loopback interface with an IPv4 address.
func Probe() (Info, error) {
	ifaces, err := psnet.Interfaces()
	if err != nil {
		return Offline, fmt.Errorf("netinfo: %w", err)
	}
	info := pick(ifaces)
	if !info.Up {
		return info, nil
	}
	if stats, err := psnet.IOCounters(true); err == nil {
		for _, s := range stats {
			if s.Name == info.Name {
				info.RxBytes, info.TxBytes = s.BytesRecv, s.BytesSent
				break
			}
		}
	}
	return info, nil
}

func pick(ifaces []psnet.InterfaceStat) Info {
	for _, iface := range ifaces {
		if !hasFlag(iface.Flags, "up") || hasFlag(iface.Flags, "loopback") {
			continue
		}
		for _, a := range iface.Addrs {
			ip := parseAddr(a.Addr)
			if ip == nil || ip.IsLoopback() || ip.To4() == nil {
				continue
			}
			return Info{Name: iface.Name, IP: ip.String(), Up: true}
		}
	}
	return Offline
}

func hasFlag(flags []string, f string) bool {
	for _, x := range flags {
		if strings.EqualFold(x, f) {
			return true
		}
	}
	return false
}

// parseAddr accepts "10.0.0.5/24" or a bare address.
func parseAddr(s string) net.IP {
	if ip, _, err := net.ParseCIDR(s); err == nil {
		return ip
	}
	return net.ParseIP(s)
}
