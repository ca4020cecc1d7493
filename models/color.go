package models

// TeamColor is one of the fixed team swatches, stored as its hex value.
type TeamColor string

const (
	ColorRed        TeamColor = "#EC7063"
	ColorBlue       TeamColor = "#3F51B5"
	ColorGreen      TeamColor = "#4CAF50"
	ColorLightGreen TeamColor = "#8BC34A"
	ColorOrange     TeamColor = "#FF9800"
	ColorYellow     TeamColor = "#FFEB3B"
	ColorBlack      TeamColor = "#000000"
	ColorWhite      TeamColor = "#FFFFFF"
	ColorGrey       TeamColor = "#9E9E9E"
)

var teamColors = []TeamColor{
	ColorRed, ColorBlue, ColorGreen, ColorLightGreen, ColorOrange,
	ColorYellow, ColorBlack, ColorWhite, ColorGrey,
}

func TeamColors() []TeamColor {
	out := make([]TeamColor, len(teamColors))
	copy(out, teamColors)
	return out
}

// ParseTeamColor falls back to red.
func ParseTeamColor(raw string) TeamColor {
	for _, c := range teamColors {
		if string(c) == raw {
			return c
		}
	}
	return ColorRed
}

// ColorForIndex assigns swatches to teams in creation order, wrapping around.
func ColorForIndex(i int) TeamColor {
	if i < 0 {
		i = -i
	}
	return teamColors[i%len(teamColors)]
}
