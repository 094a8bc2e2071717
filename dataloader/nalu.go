package dataloader

// Column names written by the ParaView sampling of Nalu output.
const (
	naluX        = "Points:0"
	naluY        = "Points:1"
	naluZ        = "Points:2"
	naluPressure = "pressure"
	naluTauWall  = "tau_wall"
	naluTime     = "time"
)

var naluVelocity = [3]string{"velocity_:0", "velocity_:1", "velocity_:2"}
var naluPressureForce = [3]string{"pressure_force_:0", "pressure_force_:1", "pressure_force_:2"}

// Coordinate column names of the raw Nalu samples, in x, y, z order. These
// are the grouping columns of the temporal average.
var NaluCoordinates = [3]string{naluX, naluY, naluZ}

// NaluStepColumn is the column the temporal average tags rows with.
const NaluStepColumn = naluTime

func naluBase() []Field {
	return []Field{
		Rename("x", naluX),
		Rename("y", naluY),
		Rename("z", naluZ),
		Rename("p", naluPressure),
		Rename("ux", naluVelocity[0]),
		Rename("uy", naluVelocity[1]),
		Rename("uz", naluVelocity[2]),
	}
}

func avgTime() Field {
	f := Rename("avg_time", naluTime)
	f.Optional = true
	return f
}

// NaluVortex returns the strict schema for averaged vortex (x-normal) slices.
func NaluVortex() Schema {
	fields := append(naluBase(), avgTime())
	return Schema{Fields: fields, Strict: true}
}

// NaluWing returns the strict schema for wing surface slices. They carry the
// wall quantities on top of the vortex slice fields.
func NaluWing() Schema {
	fields := naluBase()
	fields = append(fields,
		Rename("fpx", naluPressureForce[0]),
		Rename("fpy", naluPressureForce[1]),
		Rename("fpz", naluPressureForce[2]),
		Rename("tau_wall", naluTauWall),
		avgTime(),
	)
	return Schema{Fields: fields, Strict: true}
}
