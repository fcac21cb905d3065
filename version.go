package slidesmith

import "fmt"

// Version information for the slidesmith engine.
const (
	VersionMajor = 0
	VersionMinor = 3
	VersionPatch = 1
)

// Producer is written into docProps/app.xml and the SVG provenance mark.
const Producer = "slidesmith"

// Version is the full version string of the engine.
var Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
