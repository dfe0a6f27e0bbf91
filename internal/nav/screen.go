// Package nav holds the client's navigation state: which top-level screen is mounted
// and which in-screen steps have been pushed on top of it.
package nav

import "fmt"

// Screen is a top-level view. Exactly one screen is active at any time.
type Screen int

const (
	Splash Screen = iota
	Welcome
	Login
	Signup
	Main
	Notification
	Menu
	Offline
)

// Screens lists every screen in declaration order.
var Screens = []Screen{Splash, Welcome, Login, Signup, Main, Notification, Menu, Offline}

var screenNames = map[Screen]string{
	Splash:       "splash",
	Welcome:      "welcome",
	Login:        "login",
	Signup:       "signup",
	Main:         "main",
	Notification: "notification",
	Menu:         "menu",
	Offline:      "offline",
}

func (s Screen) String() string {
	if name, ok := screenNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Screen(%d)", int(s))
}

// ParseScreen maps a screen name back to its Screen.
func ParseScreen(name string) (Screen, error) {
	for s, n := range screenNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown screen %q", name)
}
