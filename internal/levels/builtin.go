package levels

import "time"

// builtin defines the campaign: eight levels introducing one mechanic at a
// time, ending with a timed run that needs all of them.
var builtin = []Level{
	{
		ID:   "01-first-steps",
		Name: "First Steps",
		Grid: []string{
			"#######",
			"#S...E#",
			"#######",
		},
	},
	{
		ID:   "02-turning-point",
		Name: "Turning Point",
		Grid: []string{
			"######",
			"#S...#",
			"####.#",
			"#E...#",
			"######",
		},
	},
	{
		ID:   "03-lock-and-key",
		Name: "Lock and Key",
		Grid: []string{
			"########",
			"#S.K.D.#",
			"######.#",
			"#E.....#",
			"########",
		},
	},
	{
		ID:   "04-the-hot-floor",
		Name: "The Hot Floor",
		Grid: []string{
			"########",
			"#S.L..E#",
			"#..LL..#",
			"#......#",
			"########",
		},
	},
	{
		ID:   "05-heavy-lifting",
		Name: "Heavy Lifting",
		Grid: []string{
			"#######",
			"#S.B..#",
			"####.##",
			"####E##",
			"#######",
		},
	},
	{
		ID:   "06-sink-or-swim",
		Name: "Sink or Swim",
		Grid: []string{
			"#####",
			"#S.##",
			"##B##",
			"##L##",
			"##E##",
			"#####",
		},
	},
	{
		ID:   "07-press-the-button",
		Name: "Press the Button",
		Grid: []string{
			"#######",
			"#S..v.#",
			"#.###.#",
			"#E....#",
			"#######",
		},
	},
	{
		ID:   "08-the-gauntlet",
		Name: "The Gauntlet",
		Grid: []string{
			"##########",
			"#S.K.D...#",
			"########.#",
			"#E..L.B..#",
			"##########",
		},
		TimeLimit: 120 * time.Second,
	},
}

func init() {
	for _, lvl := range builtin {
		Register(lvl)
	}
}
