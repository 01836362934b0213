package controller

import "github.com/gridsnake/engine/config"

// Config carries the per-room game tuning.
type Config struct {
	GridWidth     int
	GridHeight    int
	FoodReward    int
	CountdownFrom int
}

// DefaultConfig reads the game tuning from the environment.
func DefaultConfig() Config {
	return Config{
		GridWidth:     config.GridWidth,
		GridHeight:    config.GridHeight,
		FoodReward:    config.FoodReward,
		CountdownFrom: config.CountdownFrom,
	}
}
