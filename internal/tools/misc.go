package tools

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// MiscTools are the connectivity-check tools: greeting, clock and a dummy
// weather report. None of them touch the store.
type MiscTools struct {
	logger *zerolog.Logger
}

func NewMiscTools(logger *zerolog.Logger) *MiscTools {
	return &MiscTools{logger: logger}
}

func (t *MiscTools) Hello(ctx context.Context, args Arguments) Payload {
	return Guard(t.logger, "hello_world", func() Payload {
		name := args.String("name")
		if name == "" {
			name = "World"
		}
		return Payload{"message": fmt.Sprintf("Hello %s!", name)}
	})
}

func (t *MiscTools) CurrentTime(ctx context.Context, args Arguments) Payload {
	return Guard(t.logger, "get_current_time", func() Payload {
		now := time.Now().UTC().Format(time.RFC3339Nano)
		t.logger.Info().Str("utc", now).Msg("UTC now")
		return Payload{"utcTime": now}
	})
}

var weatherChoices = []string{
	"Sunny", "Partly cloudy", "Cloudy", "Rain", "Light rain", "Thunderstorm", "Snow", "Fog",
}

// Weather returns made-up conditions for a city. It exists so MCP clients
// have a parameterized tool to exercise without store access.
func (t *MiscTools) Weather(ctx context.Context, args Arguments) Payload {
	return Guard(t.logger, "get_weather", func() Payload {
		city := args.String("city")
		if city == "" {
			return ErrorWith(KindValidation, "city が指定されていません", "", Payload{"field": "city"})
		}
		timeValue := args.String("time")
		if timeValue == "" {
			timeValue = time.Now().UTC().Format(time.RFC3339Nano)
		}

		tempC := rand.IntN(46) - 10
		tempF := float64(tempC)*9/5 + 32
		return Payload{
			"city": city,
			"time": timeValue,
			"weather": Payload{
				"tempC":         strconv.Itoa(tempC),
				"tempF":         strconv.FormatFloat(tempF, 'f', 1, 64),
				"weatherDesc":   weatherChoices[rand.IntN(len(weatherChoices))],
				"windspeedKmph": strconv.Itoa(rand.IntN(41)),
				"humidity":      strconv.Itoa(20 + rand.IntN(81)),
			},
		}
	})
}
