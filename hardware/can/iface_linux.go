//go:build linux

package can

import (
	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

func ifaceFlags(name string) (uint16, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return 0, errors.Annotate(err, "socket")
	}
	defer unix.Close(fd)
	ifr, err := unix.NewIfreq(name)
	if err != nil {
		return 0, errors.Annotatef(err, "ifreq name=%s", name)
	}
	if err = unix.IoctlIfreq(fd, unix.SIOCGIFFLAGS, ifr); err != nil {
		return 0, errors.Annotatef(err, "SIOCGIFFLAGS name=%s", name)
	}
	return ifr.Uint16(), nil
}

// setIfaceUp requires CAP_NET_ADMIN.
func setIfaceUp(name string, up bool) error {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return errors.Annotate(err, "socket")
	}
	defer unix.Close(fd)
	ifr, err := unix.NewIfreq(name)
	if err != nil {
		return errors.Annotatef(err, "ifreq name=%s", name)
	}
	if err = unix.IoctlIfreq(fd, unix.SIOCGIFFLAGS, ifr); err != nil {
		return errors.Annotatef(err, "SIOCGIFFLAGS name=%s", name)
	}
	flags := ifr.Uint16()
	if up {
		flags |= unix.IFF_UP
	} else {
		flags &^= unix.IFF_UP
	}
	ifr.SetUint16(flags)
	if err = unix.IoctlIfreq(fd, unix.SIOCSIFFLAGS, ifr); err != nil {
		return errors.Annotatef(err, "SIOCSIFFLAGS name=%s up=%t", name, up)
	}
	return nil
}

// healthFromFlags: controller in bus-off drops carrier, interface stays up but not running.
func healthFromFlags(flags uint16) Health {
	if flags&unix.IFF_UP == 0 {
		return HealthOff
	}
	if flags&unix.IFF_RUNNING == 0 {
		return HealthOff
	}
	return HealthNormal
}
