package conf

import (
	"flag"
	"fmt"
	"os"
	"reflect"

	"github.com/yola1107/kratos/v2/config"
	"github.com/yola1107/kratos/v2/config/file"
	"github.com/yola1107/kratos/v2/library/event"
	ext "github.com/yola1107/kratos/v2/library/xgo"
	"github.com/yola1107/kratos/v2/library/log/zap"
	zconf "github.com/yola1107/kratos/v2/library/log/zap/conf"
	"github.com/yola1107/kratos/v2/log"
)

const Name = "startup-ludo"
const Version = "v0.1.0"

var ServerID = "" // room server instance id

func init() {
	flag.StringVar(&ServerID, "sid", os.Getenv("HOSTNAME"), "specify the server ID.")
}

// Bootstrap is the full configuration tree, scanned from the yaml
// config file.
type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
	Room   *Room   `json:"room"`
}

type Server struct {
	Http *HTTP `json:"http"`
}

type HTTP struct {
	Addr           string `json:"addr"`
	TimeoutSeconds int32  `json:"timeoutSeconds"`
}

type Data struct {
	Redis *Redis `json:"redis"`
}

type Redis struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	Db       int32  `json:"db"`
}

// Room carries everything the turn machine reads at runtime.
type Room struct {
	Game       *Game       `json:"game"`
	AI         *AI         `json:"ai"`
	Checkpoint *Checkpoint `json:"checkpoint"`
}

type Game struct {
	Edition           string `json:"edition"`
	MaxSeats          int32  `json:"maxSeats"`
	CaptureReward     int32  `json:"captureReward"`
	RollTimeoutSec    int32  `json:"rollTimeoutSec"`
	MoveTimeoutSec    int32  `json:"moveTimeoutSec"`
	EventTimeoutSec   int32  `json:"eventTimeoutSec"`
	DuelTimeoutSec    int32  `json:"duelTimeoutSec"`
	ForfeitTimeoutSec int32  `json:"forfeitTimeoutSec"`
}

type AI struct {
	FillSeats  bool   `json:"fillSeats"` // top rooms up with AI opponents
	Difficulty string `json:"difficulty"`
}

type Checkpoint struct {
	TTLSeconds int32 `json:"ttlSeconds"`
}

// Validate rejects a config the server cannot run with. Zero timeout
// fields fall back to defaults instead of failing.
func (bc *Bootstrap) Validate() error {
	if bc.Server == nil || bc.Server.Http == nil || bc.Server.Http.Addr == "" {
		return fmt.Errorf("server.http.addr is required")
	}
	if bc.Data == nil || bc.Data.Redis == nil || bc.Data.Redis.Addr == "" {
		return fmt.Errorf("data.redis.addr is required")
	}
	if bc.Room == nil || bc.Room.Game == nil {
		return fmt.Errorf("room.game is required")
	}
	g := bc.Room.Game
	if g.MaxSeats < 2 || g.MaxSeats > 4 {
		return fmt.Errorf("room.game.maxSeats %d, want 2..4", g.MaxSeats)
	}
	bc.applyDefaults()
	return nil
}

func (bc *Bootstrap) applyDefaults() {
	g := bc.Room.Game
	if g.Edition == "" {
		g.Edition = "startup"
	}
	if g.CaptureReward == 0 {
		g.CaptureReward = 2
	}
	setIfZero(&g.RollTimeoutSec, 15)
	setIfZero(&g.MoveTimeoutSec, 15)
	setIfZero(&g.EventTimeoutSec, 20)
	setIfZero(&g.DuelTimeoutSec, 60)
	setIfZero(&g.ForfeitTimeoutSec, 30)

	if bc.Room.AI == nil {
		bc.Room.AI = &AI{FillSeats: true, Difficulty: "medium"}
	}
	if bc.Room.AI.Difficulty == "" {
		bc.Room.AI.Difficulty = "medium"
	}
	if bc.Room.Checkpoint == nil {
		bc.Room.Checkpoint = &Checkpoint{}
	}
	setIfZero(&bc.Room.Checkpoint.TTLSeconds, 24*3600)
}

func setIfZero(v *int32, def int32) {
	if *v == 0 {
		*v = def
	}
}

// LoadConfig loads and validates the yaml config plus the logger
// section.
func LoadConfig(flagconf string) (config.Config, *Bootstrap, *zconf.Bootstrap) {
	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)

	if err := c.Load(); err != nil {
		panic(err)
	}

	var (
		bc Bootstrap
		lc zconf.Bootstrap
	)

	if err := c.Scan(&bc); err != nil {
		panic(fmt.Errorf("bootstrap config invalid: %v", err))
	}
	if err := bc.Validate(); err != nil {
		panic(fmt.Errorf("bootstrap config invalid: %v", err))
	}
	if err := c.Scan(&lc); err != nil || lc.ValidateAll() != nil {
		panic(fmt.Errorf("logger config invalid: %v", err))
	}

	return c, &bc, &lc
}

// WatchConfig pushes config file changes into the live config tree.
// Room sections take effect on the next read; logger changes apply to
// the running logger.
func WatchConfig(c config.Config, bc *Bootstrap, lc *zconf.Bootstrap, logger *zap.Logger) error {
	bus := event.NewEventBus()

	subscribeBus(bus, logger)

	for key, ptr := range map[string]any{
		"room.game":       bc.Room.Game,
		"room.ai":         bc.Room.AI,
		"room.checkpoint": bc.Room.Checkpoint,
		"log.logger":      lc.Log.Logger,
		"log.alerter":     lc.Log.Alerter,
		"log.telegram":    lc.Log.Telegram,
	} {
		if err := c.Watch(key, observer(key, ptr, bus)); err != nil {
			return fmt.Errorf("watch %q failed: %w", key, err)
		}
	}
	return nil
}

func observer(key string, target any, bus *event.Bus) func(string, config.Value) {
	return func(_ string, val config.Value) {
		typ := reflect.TypeOf(target)
		if typ.Kind() != reflect.Pointer {
			log.Errorf("[config] %q target must be a pointer", key)
			return
		}

		newVal := reflect.New(typ.Elem()).Interface()
		if err := val.Scan(newVal); err != nil {
			log.Errorf("[config] scan failed: key=%q, err=%v", key, err)
			return
		}

		if v, ok := newVal.(interface{ ValidateAll() error }); ok {
			if err := v.ValidateAll(); err != nil {
				log.Errorf("[config] validation failed: key=%q, err=%v", key, err)
				return
			}
		}

		_, diff, err := ext.DiffLog(target, newVal)
		if err != nil {
			log.Errorf("[config] diff failed: key=%q, err=%v", key, err)
			return
		}
		if len(diff) > 0 {
			log.Warnf("[config] [%q] updated:\n%s", key, diff)
			if err := ext.DeepCopy(target, newVal); err != nil {
				log.Errorf("[config] update failed: key=%q, err=%v", key, err)
				return
			}
			bus.Publish(key, newVal)
		}
	}
}

func subscribeBus(bus *event.Bus, logger *zap.Logger) {
	bus.Subscribe("log.logger", func(val any) {
		if v, ok := val.(*zconf.Logger); ok {
			if v.Level != logger.GetLevel() {
				logger.SetLevel(v.Level)
			}
			if changes, err := ext.Diff(v.Sensitive, logger.GetSensitive()); err == nil && len(changes) > 0 {
				logger.SetSensitive(v.Sensitive)
			}
		}
	})
}
