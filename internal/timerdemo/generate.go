package timerdemo

// embedCycle hands out embed URLs round-robin, wrapping indefinitely.
type embedCycle struct {
	urls []string
	next int
}

func (c *embedCycle) take() string {
	url := c.urls[c.next%len(c.urls)]
	c.next++
	return url
}

var onlineStageMoves = [][]string{
	{"Jumping Jacks", "Bodybuilder", "Push-up"},
	{"Shoulder Taps", "Seal Jacks", "Jump Squats"},
	{"Burpees", "Straddle Jump", "Toe Taps"},
	{"TRX In Outs", "High Knees", "Db Walking Lunge"},
	{"Bear Crawl", "Death Frogs", "Broad Jump"},
	{"Full Range Sit-up", "Rocking Plank", "Bicycle Abs"},
	{"Plank Jump", "Plank Hold", "Wall Sit"},
	{"Skaters", "Split Jump", "Toy Soldier"},
}

var gymStations = []Station{
	{Station: 1, People: 6, Moves: []string{"Db Curl", "Db Hammer Curl"}},
	{Station: 2, People: 6, Moves: []string{"Bench Press", "Db Skull Crusher"}},
	{Station: 3, People: 6, Moves: []string{"Kb Row - R", "Kb Row - L"}},
	{Station: 4, People: 6, Moves: []string{"Leg Raise", "Butterfly Crunch"}},
	{Station: 5, People: 6, Moves: []string{"Db Arnold Press", "Db Lateral Raise"}},
	{Station: 6, People: 6, Moves: []string{"Pull-ups", "Push-ups"}},
}

const (
	onlineRounds        = 2
	onlineWorkSec       = 60
	onlineRestSec       = 20
	onlineTransitionSec = 50

	gymMoveSlots      = 2
	gymRoundsPerMove  = 4
	gymWorkSec        = 40
	gymRestSec        = 12
	gymMoveSwitchSec  = 20
	gymTransitionSec  = 60
	quickRounds       = 2
	quickWorkSec      = 10
	quickRestSec      = 5
	restBetweenRounds = "between_rounds"
)

// Generate builds the three demos. Online WORK segments share one embed
// iterator, so the quick demo continues where the long online demo stopped.
func Generate(moveEmbeds []string) (Document, error) {
	if len(moveEmbeds) == 0 {
		return Document{}, ErrEmptyCatalog
	}
	embeds := &embedCycle{urls: moveEmbeds}
	return Document{
		GeneratedAt: GeneratedAt,
		Demos: []Timeline{
			onlineExample(embeds),
			gymExample(),
			onlineQuick(embeds),
		},
	}, nil
}

func onlineExample(embeds *embedCycle) Timeline {
	stageCount := len(onlineStageMoves)
	var segments []Segment
	for stageIdx, moves := range onlineStageMoves {
		stage := stageIdx + 1
		for round := 1; round <= onlineRounds; round++ {
			for slotIdx, move := range moves {
				segments = append(segments, Segment{
					Kind:        KindWork,
					DurationSec: onlineWorkSec,
					Meta: Meta{
						Mode:              ModeOnline,
						StageIndex:        stage,
						StageCount:        stageCount,
						RoundIndex:        round,
						RoundsPerStage:    onlineRounds,
						MoveSlotIndex:     slotIdx + 1,
						MoveSlotsPerStage: len(moves),
						MoveName:          move,
						VideoEmbedURL:     embeds.take(),
					},
				})
			}
			if round < onlineRounds {
				segments = append(segments, Segment{
					Kind:        KindRest,
					DurationSec: onlineRestSec,
					Meta:        Meta{Mode: ModeOnline, StageIndex: stage, RoundIndex: round, RestType: restBetweenRounds},
				})
			}
		}
		if stage < stageCount {
			segments = append(segments, Segment{
				Kind:        KindStationStageTransition,
				DurationSec: onlineTransitionSec,
				Meta:        Meta{Mode: ModeOnline, FromStage: stage, ToStage: stage + 1},
			})
		}
	}

	stageMoves := make([][]string, len(onlineStageMoves))
	for i, moves := range onlineStageMoves {
		stageMoves[i] = append([]string(nil), moves...)
	}
	return Timeline{
		ID:               "online_example2",
		Mode:             ModeOnline,
		Title:            "Online Demo: Example #2 (8 stages, 3 moves, 2 rounds)",
		Description:      "Eight stages of three moves, two rounds each. Move demo videos stand in for the move clips.",
		CapSuggestionMin: 42,
		Segments:         segments,
		StageMoves:       stageMoves,
	}
}

func gymExample() Timeline {
	rotations := len(gymStations)
	var segments []Segment
	for rotation := 1; rotation <= rotations; rotation++ {
		for slot := 1; slot <= gymMoveSlots; slot++ {
			for round := 1; round <= gymRoundsPerMove; round++ {
				segments = append(segments,
					Segment{
						Kind:        KindWork,
						DurationSec: gymWorkSec,
						Meta: Meta{
							Mode: ModeGym, RotationIndex: rotation, RotationCount: rotations,
							MoveSlotIndex: slot, RoundIndex: round, RoundsPerMove: gymRoundsPerMove,
						},
					},
					Segment{
						Kind:        KindRest,
						DurationSec: gymRestSec,
						Meta: Meta{
							Mode: ModeGym, RotationIndex: rotation, RotationCount: rotations,
							MoveSlotIndex: slot, RoundIndex: round, RestType: restBetweenRounds,
						},
					})
			}
			if slot < gymMoveSlots {
				segments = append(segments, Segment{
					Kind:        KindMoveTransitionA,
					DurationSec: gymMoveSwitchSec,
					Meta:        Meta{Mode: ModeGym, RotationIndex: rotation, FromMoveSlot: slot, ToMoveSlot: slot + 1},
				})
			}
		}
		if rotation < rotations {
			segments = append(segments, Segment{
				Kind:        KindStationStageTransition,
				DurationSec: gymTransitionSec,
				Meta:        Meta{Mode: ModeGym, FromRotation: rotation, ToRotation: rotation + 1},
			})
		}
	}

	stations := make([]Station, len(gymStations))
	for i, s := range gymStations {
		stations[i] = Station{Station: s.Station, People: s.People, Moves: append([]string(nil), s.Moves...)}
	}
	return Timeline{
		ID:               "gym_example1",
		Mode:             ModeGym,
		Title:            "Gym Demo: Example #1 (6 stations, 2 moves, 4 rounds per move)",
		Description:      "The station board shows each station's moves; the timer drives rounds, move slot A/B and rotations.",
		CapSuggestionMin: 42,
		Stations:         stations,
		Segments:         segments,
	}
}

func onlineQuick(embeds *embedCycle) Timeline {
	var segments []Segment
	for round := 1; round <= quickRounds; round++ {
		segments = append(segments, Segment{
			Kind:        KindWork,
			DurationSec: quickWorkSec,
			Meta: Meta{
				Mode:              ModeOnline,
				StageIndex:        1,
				StageCount:        1,
				RoundIndex:        round,
				RoundsPerStage:    quickRounds,
				MoveSlotIndex:     1,
				MoveSlotsPerStage: 1,
				MoveName:          "Demo Move",
				VideoEmbedURL:     embeds.take(),
			},
		})
		if round < quickRounds {
			segments = append(segments, Segment{
				Kind:        KindRest,
				DurationSec: quickRestSec,
				Meta:        Meta{Mode: ModeOnline, StageIndex: 1, RoundIndex: round, RestType: restBetweenRounds},
			})
		}
	}
	return Timeline{
		ID:               "online_quick",
		Mode:             ModeOnline,
		Title:            "Online Quick Demo (10s work / 5s rest)",
		Description:      "Short demo for checking beeps, volume and segment transitions.",
		CapSuggestionMin: 1,
		Segments:         segments,
	}
}
