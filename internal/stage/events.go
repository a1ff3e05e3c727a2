package stage

import "github.com/zeusync/danmaku/internal/core/enemy"

// Event types published on the stage bus.
const (
	EventSoundEffect   = "sound_effect"
	EventPowerUp       = "power_up"
	EventEndLevel      = "end_level"
	EventBossHealthBar = "boss_health_bar"
)

const eventSource = "stage"

// SoundEffect is the payload of EventSoundEffect.
type SoundEffect struct {
	Name string
}

// PowerUp is the payload of EventPowerUp.
type PowerUp = enemy.PowerUp

// BossHealth is the payload of EventBossHealthBar.
type BossHealth struct {
	MeterNumber     int64
	MilliPercentage int64
}
