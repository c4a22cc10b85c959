package movement

import "github.com/rotisserie/eris"

func errUnknownFacing(s string) error {
	return eris.Errorf("unknown facing %q", s)
}

func errUnknownDirection(s string) error {
	return eris.Errorf("unknown direction %q", s)
}
