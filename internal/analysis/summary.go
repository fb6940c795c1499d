package analysis

import (
	"math"

	"github.com/san-kum/ballsim/internal/sim"
)

type Summary struct {
	Samples       int
	Duration      float64
	InitialEnergy float64
	FinalEnergy   float64
	EnergyLoss    float64
	MaxMomentum   float64
	Collisions    int
	CollisionRate float64
	MeanSpeed     float64
	RMSSpeed      float64
}

func Summarize(result *sim.Result) Summary {
	s := Summary{Samples: len(result.Times)}
	if s.Samples == 0 {
		return s
	}

	s.Duration = result.Times[s.Samples-1] - result.Times[0]
	if len(result.Energy) > 0 {
		s.InitialEnergy = result.Energy[0]
		s.FinalEnergy = result.Energy[len(result.Energy)-1]
		if s.InitialEnergy != 0 {
			s.EnergyLoss = 1 - s.FinalEnergy/s.InitialEnergy
		}
	}
	for _, p := range result.Momentum {
		s.MaxMomentum = math.Max(s.MaxMomentum, p)
	}
	if len(result.Collisions) > 0 {
		s.Collisions = result.Collisions[len(result.Collisions)-1] - result.Collisions[0]
		if s.Duration > 0 {
			s.CollisionRate = float64(s.Collisions) / s.Duration
		}
	}

	if len(result.Samples) > 0 {
		speeds := Speeds(result.Samples[len(result.Samples)-1])
		if len(speeds) > 0 {
			sum, sq := 0.0, 0.0
			for _, v := range speeds {
				sum += v
				sq += v * v
			}
			s.MeanSpeed = sum / float64(len(speeds))
			s.RMSSpeed = math.Sqrt(sq / float64(len(speeds)))
		}
	}
	return s
}
