package nbastats

// Wire shapes for the provider's JSON. Records stay provider-flavored
// here; the mapping layer owns translation into storage rows.

type TeamRecord struct {
	ID           int64  `json:"id"`
	Name         string `json:"full_name"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
}

type PlayerRecord struct {
	ID           int64       `json:"id"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Position     string      `json:"position"`
	JerseyNumber string      `json:"jersey_number"`
	HeightInches *int        `json:"height_inches"`
	WeightPounds *int        `json:"weight_pounds"`
	Team         *TeamRecord `json:"team"`
}

type GameRecord struct {
	ID         int64      `json:"id"`
	Date       string     `json:"date"`
	Season     int        `json:"season"`
	Status     string     `json:"status"`
	HomeTeam   TeamRecord `json:"home_team"`
	AwayTeam   TeamRecord `json:"visitor_team"`
	HomeScore  *int       `json:"home_team_score"`
	AwayScore  *int       `json:"visitor_team_score"`
	Postseason bool       `json:"postseason"`
}

type StatRecord struct {
	ID     int64        `json:"id"`
	Player PlayerRecord `json:"player"`
	Game   GameRecord   `json:"game"`
	Team   TeamRecord   `json:"team"`

	Minutes        string  `json:"min"`
	Points         float64 `json:"pts"`
	Rebounds       float64 `json:"reb"`
	Assists        float64 `json:"ast"`
	Steals         float64 `json:"stl"`
	Blocks         float64 `json:"blk"`
	Turnovers      float64 `json:"turnover"`
	Fouls          float64 `json:"pf"`
	FieldGoalsMade float64 `json:"fgm"`
	FieldGoalsAtt  float64 `json:"fga"`
	ThreePtMade    float64 `json:"fg3m"`
	ThreePtAtt     float64 `json:"fg3a"`
	FreeThrowsMade float64 `json:"ftm"`
	FreeThrowsAtt  float64 `json:"fta"`
}

// PageMeta carries pagination state plus how many transient retries the
// fetch burned, so callers can surface retry counts in job status.
type PageMeta struct {
	NextCursor *int64
	Retries    int
}

type TeamPage struct {
	Teams []TeamRecord
	Meta  PageMeta
}

type PlayerPage struct {
	Players []PlayerRecord
	Meta    PageMeta
}

type GamePage struct {
	Games []GameRecord
	Meta  PageMeta
}

type StatPage struct {
	Stats []StatRecord
	Meta  PageMeta
}

type pageMetaEnvelope struct {
	NextCursor *int64 `json:"next_cursor"`
	PerPage    int    `json:"per_page"`
}

type teamsEnvelope struct {
	Data []TeamRecord     `json:"data"`
	Meta pageMetaEnvelope `json:"meta"`
}

type playersEnvelope struct {
	Data []PlayerRecord   `json:"data"`
	Meta pageMetaEnvelope `json:"meta"`
}

type gamesEnvelope struct {
	Data []GameRecord     `json:"data"`
	Meta pageMetaEnvelope `json:"meta"`
}

type statsEnvelope struct {
	Data []StatRecord     `json:"data"`
	Meta pageMetaEnvelope `json:"meta"`
}
