package slidesmith

import "fmt"

// AutoShapeType is a DrawingML preset geometry name.
type AutoShapeType string

const (
	AutoShapeRectangle         AutoShapeType = "rect"
	AutoShapeRoundedRect       AutoShapeType = "roundRect"
	AutoShapeEllipse           AutoShapeType = "ellipse"
	AutoShapeDiamond           AutoShapeType = "diamond"
	AutoShapeTriangle          AutoShapeType = "triangle"
	AutoShapeRtTriangle        AutoShapeType = "rtTriangle"
	AutoShapePentagon          AutoShapeType = "pentagon"
	AutoShapeHexagon           AutoShapeType = "hexagon"
	AutoShapeHeptagon          AutoShapeType = "heptagon"
	AutoShapeOctagon           AutoShapeType = "octagon"
	AutoShapeStar5             AutoShapeType = "star5"
	AutoShapeArrowRight        AutoShapeType = "rightArrow"
	AutoShapeCloud             AutoShapeType = "cloud"
	AutoShapeHeart             AutoShapeType = "heart"
	AutoShapeLightningBolt     AutoShapeType = "lightningBolt"
	AutoShapeSun               AutoShapeType = "sun"
	AutoShapeMoon              AutoShapeType = "moon"
	AutoShapeSmileyFace        AutoShapeType = "smileyFace"
	AutoShapeNoSmoking         AutoShapeType = "noSmoking"
	AutoShapeFlowchartProcess  AutoShapeType = "flowChartProcess"
	AutoShapeFlowchartDecision AutoShapeType = "flowChartDecision"
	AutoShapeFlowchartData     AutoShapeType = "flowChartInputOutput"
	AutoShapeFlowchartDocument AutoShapeType = "flowChartDocument"
)

// MSO AutoShape codes (MsoAutoShapeType) understood by the engine.
const (
	MSORectangle         = 1
	MSODiamond           = 4
	MSORoundedRectangle  = 5
	MSOOctagon           = 6
	MSOIsoscelesTriangle = 7
	MSORightTriangle     = 8
	MSOOval              = 9
	MSOHexagon           = 10
	MSORegularPentagon   = 12
	MSOSmileyFace        = 17
	MSONoSymbol          = 19
	MSOHeart             = 21
	MSOLightningBolt     = 22
	MSOSun               = 23
	MSOMoon              = 24
	MSORightArrow        = 33
	MSOFlowchartProcess  = 61
	MSOFlowchartDecision = 63
	MSOFlowchartData     = 64
	MSOFlowchartDocument = 67
	MSOStar5Point        = 92
	MSOHeptagon          = 145
	MSOCloud             = 179
)

var msoPresets = map[int]AutoShapeType{
	MSORectangle:         AutoShapeRectangle,
	MSODiamond:           AutoShapeDiamond,
	MSORoundedRectangle:  AutoShapeRoundedRect,
	MSOOctagon:           AutoShapeOctagon,
	MSOIsoscelesTriangle: AutoShapeTriangle,
	MSORightTriangle:     AutoShapeRtTriangle,
	MSOOval:              AutoShapeEllipse,
	MSOHexagon:           AutoShapeHexagon,
	MSORegularPentagon:   AutoShapePentagon,
	MSOSmileyFace:        AutoShapeSmileyFace,
	MSONoSymbol:          AutoShapeNoSmoking,
	MSOHeart:             AutoShapeHeart,
	MSOLightningBolt:     AutoShapeLightningBolt,
	MSOSun:               AutoShapeSun,
	MSOMoon:              AutoShapeMoon,
	MSORightArrow:        AutoShapeArrowRight,
	MSOFlowchartProcess:  AutoShapeFlowchartProcess,
	MSOFlowchartDecision: AutoShapeFlowchartDecision,
	MSOFlowchartData:     AutoShapeFlowchartData,
	MSOFlowchartDocument: AutoShapeFlowchartDocument,
	MSOStar5Point:        AutoShapeStar5,
	MSOHeptagon:          AutoShapeHeptagon,
	MSOCloud:             AutoShapeCloud,
}

// AutoShapeTypeFromMSO resolves an MSO AutoShape code to a preset geometry.
func AutoShapeTypeFromMSO(code int) (AutoShapeType, error) {
	if t, ok := msoPresets[code]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unsupported auto shape code %d", code)
}
