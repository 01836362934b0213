package config

import (
	"os"
	"strconv"
	"time"
)

// Configuration variables. These aren't user facing but useful for tuning
// game and scheduler behavior without a rebuild.
var (
	GridWidth     = getEnvInt("GRID_WIDTH", 30)
	GridHeight    = getEnvInt("GRID_HEIGHT", 30)
	FoodReward    = getEnvInt("FOOD_REWARD", 1)
	CountdownFrom = getEnvInt("COUNTDOWN_FROM", 3)

	TickInterval      = time.Duration(getEnvInt("TICK_MS", 150)) * time.Millisecond
	CountdownInterval = time.Duration(getEnvInt("COUNTDOWN_MS", 1000)) * time.Millisecond
)

func getEnvInt(varName string, defaults int) int {
	val := os.Getenv(varName)
	if val == "" {
		return defaults
	}
	intVal, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return defaults
	}
	return int(intVal)
}
