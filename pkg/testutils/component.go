package testutils

// Components used by the ecs tests. They only need distinct names and a mix of field types.

type Health struct {
	HP int
}

func (Health) Name() string { return "health" }

type Velocity struct {
	X, Y, Z float64
}

func (Velocity) Name() string { return "velocity" }

type Label struct {
	Text    string
	Enabled bool
}

func (Label) Name() string { return "label" }

type Marker struct{}

func (Marker) Name() string { return "marker" }
