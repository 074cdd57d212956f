package itinerary

// TripType is the party composition selected for a trip.
type TripType string

const (
	TripTypeSolo   TripType = "SOLO"
	TripTypeCouple TripType = "COUPLE"
	TripTypeFamily TripType = "FAMILY"
	TripTypeGroup  TripType = "GROUP"
)

func (t TripType) String() string {
	return string(t)
}

func (t TripType) IsValid() bool {
	switch t {
	case TripTypeSolo, TripTypeCouple, TripTypeFamily, TripTypeGroup:
		return true
	default:
		return false
	}
}

// Budget is the daily spend bracket in USD.
type Budget string

const (
	Budget50To100   Budget = "50-100"
	Budget100To200  Budget = "100-200"
	Budget200To300  Budget = "200-300"
	Budget300To500p Budget = "300-500+"
)

func (b Budget) String() string {
	return string(b)
}

func (b Budget) IsValid() bool {
	switch b {
	case Budget50To100, Budget100To200, Budget200To300, Budget300To500p:
		return true
	default:
		return false
	}
}

// Duration is the advertised trip length bracket.
type Duration string

const (
	Duration3Days  Duration = "3_DAYS"
	Duration5Days  Duration = "5_DAYS"
	Duration1Week  Duration = "1_WEEK"
	Duration10Days Duration = "10_DAYS"
	Duration2Weeks Duration = "2_WEEKS"
)

func (d Duration) String() string {
	return string(d)
}

func (d Duration) IsValid() bool {
	switch d {
	case Duration3Days, Duration5Days, Duration1Week, Duration10Days, Duration2Weeks:
		return true
	default:
		return false
	}
}
