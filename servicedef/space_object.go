package servicedef

// Object types accepted by the space-object API.
const (
	ObjectTypePayload    = "Payload"
	ObjectTypeRocketBody = "Rocket Body"
	ObjectTypeDebris     = "Debris"
	ObjectTypeUnknown    = "Unknown"
)

// AllObjectTypes is the closed set of object type values.
var AllObjectTypes = []string{ObjectTypePayload, ObjectTypeRocketBody, ObjectTypeDebris, ObjectTypeUnknown}

// SpaceObjectsPath is the creation endpoint path relative to the API's base URL.
const SpaceObjectsPath = "/api/space-objects"

// DateOnlyFormat is the layout for launchDate and decay.
const DateOnlyFormat = "2006-01-02"

// SpaceObjectPayload is the body of a space-object creation request. The validate tags are
// evaluated by the rules package; cospar, norad, dateonly, objecttype, positive and nonnegative are
// custom validations registered there.
type SpaceObjectPayload struct {
	CosparID      string  `json:"cosparId" validate:"required,cospar"`
	NoradID       string  `json:"noradId" validate:"required,norad"`
	Name          string  `json:"name" validate:"required"`
	ObjectType    string  `json:"objectType" validate:"required,objecttype"`
	LaunchCountry string  `json:"launchCountry"`
	LaunchDate    string  `json:"launchDate" validate:"omitempty,dateonly"`
	LaunchSite    string  `json:"launchSite"`
	Decay         string  `json:"decay" validate:"omitempty,dateonly"`
	Period        float64 `json:"period" validate:"positive"`
	Inclination   float64 `json:"inclination" validate:"nonnegative"`
	Apogee        float64 `json:"apogee" validate:"nonnegative"`
	Perigee       float64 `json:"perigee" validate:"nonnegative"`
	LaunchMass    float64 `json:"launchMass" validate:"positive"`
	DryMass       float64 `json:"dryMass" validate:"positive"`
}

// CreatedSpaceObject is what the API echoes back for an accepted payload.
type CreatedSpaceObject struct {
	ID string `json:"id"`
	SpaceObjectPayload
}

// PayloadOverride modifies a payload produced by BuildPayload.
type PayloadOverride func(*SpaceObjectPayload)

// BasePayload returns a payload that satisfies every creation rule.
func BasePayload() SpaceObjectPayload {
	return SpaceObjectPayload{
		CosparID:      "2023-001A",
		NoradID:       "12345",
		Name:          "Test Satellite",
		ObjectType:    ObjectTypePayload,
		LaunchCountry: "USA",
		LaunchDate:    "2023-12-08",
		LaunchSite:    "Kennedy",
		Decay:         "2024-12-08",
		Period:        90.5,
		Inclination:   45.0,
		Apogee:        400.0,
		Perigee:       300.0,
		LaunchMass:    5000,
		DryMass:       4500,
	}
}

// BuildPayload returns BasePayload with the overrides applied in order.
func BuildPayload(overrides ...PayloadOverride) SpaceObjectPayload {
	p := BasePayload()
	for _, o := range overrides {
		o(&p)
	}
	return p
}

// WithCosparID sets cosparId.
func WithCosparID(id string) PayloadOverride {
	return func(p *SpaceObjectPayload) { p.CosparID = id }
}

// WithNoradID sets noradId.
func WithNoradID(id string) PayloadOverride {
	return func(p *SpaceObjectPayload) { p.NoradID = id }
}

// WithObjectType sets objectType.
func WithObjectType(t string) PayloadOverride {
	return func(p *SpaceObjectPayload) { p.ObjectType = t }
}

// WithLaunchDate sets launchDate.
func WithLaunchDate(d string) PayloadOverride {
	return func(p *SpaceObjectPayload) { p.LaunchDate = d }
}

// WithDecay sets decay.
func WithDecay(d string) PayloadOverride {
	return func(p *SpaceObjectPayload) { p.Decay = d }
}

// WithPeriod sets the orbital period in minutes.
func WithPeriod(minutes float64) PayloadOverride {
	return func(p *SpaceObjectPayload) { p.Period = minutes }
}

// WithLaunchMass sets launchMass in kilograms.
func WithLaunchMass(kg float64) PayloadOverride {
	return func(p *SpaceObjectPayload) { p.LaunchMass = kg }
}

// WithDryMass sets dryMass in kilograms.
func WithDryMass(kg float64) PayloadOverride {
	return func(p *SpaceObjectPayload) { p.DryMass = kg }
}

// WithPerigee sets perigee in kilometers.
func WithPerigee(km float64) PayloadOverride {
	return func(p *SpaceObjectPayload) { p.Perigee = km }
}
