package engine

import (
	"context"
	"errors"
	"fmt"

	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/engine/handlers"
	"notquiteparadise/internal/engine/handlers/actions"
	"notquiteparadise/internal/engine/handlers/admin"
	"notquiteparadise/internal/event"
	"notquiteparadise/internal/infrastructure/storage"
	"notquiteparadise/internal/network"
	"notquiteparadise/pkg/api"
	"notquiteparadise/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ErrGameExited - игра переведена в EXIT_GAME.
var ErrGameExited = errors.New("game exited")

// GameService - единственная горутина, владеющая Game. Команды клиентов
// приходят через CommandChan, чтения снаружи идут через Inspect.
type GameService struct {
	Game      *Game
	Hub       *network.Broadcaster
	Snapshots *storage.SnapshotStore // может быть nil

	CommandChan chan api.ClientCommand
	inspect     chan inspection

	handlers handlers.Registry
	playerID domain.EntityID
	godID    domain.EntityID

	log *logrus.Entry
}

type inspection struct {
	fn   func(*Game)
	done chan struct{}
}

// NewService оборачивает готовую игру. Snapshots можно не передавать.
func NewService(game *Game, snapshots *storage.SnapshotStore) *GameService {
	s := &GameService{
		Game:        game,
		Hub:         network.NewBroadcaster(),
		Snapshots:   snapshots,
		CommandChan: make(chan api.ClientCommand, 64),
		inspect:     make(chan inspection),
		handlers:    handlers.Registry{},
		log:         logger.Log.WithField("component", "game_service"),
	}

	actions.Register(s.handlers)
	admin.Register(s.handlers)
	s.Hub.Observe(game.Bus)

	s.playerID, _ = game.Player()
	s.godID, _ = game.Store.First(components.IsGod)
	return s
}

// PlayerID - сущность, за которую играет клиент.
func (s *GameService) PlayerID() domain.EntityID {
	return s.playerID
}

// ProcessCommand кладёт команду в очередь цикла. Не блокирует, если цикл
// остановлен и очередь полна.
func (s *GameService) ProcessCommand(cmd api.ClientCommand) bool {
	select {
	case s.CommandChan <- cmd:
		return true
	default:
		s.log.WithField("action", cmd.Action).Warn("Command queue full, command dropped")
		return false
	}
}

// Inspect выполняет fn внутри игрового цикла и ждёт её завершения.
func (s *GameService) Inspect(ctx context.Context, fn func(*Game)) error {
	req := inspection{fn: fn, done: make(chan struct{})}
	select {
	case s.inspect <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// --- GAME LOOP ---

// Run запускает игру и обрабатывает команды до отмены ctx или выхода из игры.
func (s *GameService) Run(ctx context.Context) error {
	s.log.Info("Game loop started")

	s.Game.Begin()
	s.publishUpdate()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Game loop stopped")
			return ctx.Err()

		case req := <-s.inspect:
			req.fn(s.Game)
			close(req.done)

		case cmd := <-s.CommandChan:
			s.execute(cmd)
			if s.Game.Scheduler.State() == domain.StateExitGame {
				s.log.Info("Game exited")
				return ErrGameExited
			}
		}
	}
}

func (s *GameService) execute(cmd api.ClientCommand) {
	if cmd.Action == api.ActionInit {
		s.publishUpdate()
		return
	}

	res, err := s.handlers.Dispatch(handlers.Context{Actor: s.playerID, God: s.godID}, cmd)
	if err != nil {
		s.log.WithError(err).WithField("action", cmd.Action).Warn("Command rejected")
		s.Hub.SendTo(s.playerID, api.ServerResponse{Type: api.ResponseError, Error: err.Error()})
		return
	}

	if res.Msg != "" {
		_ = s.Game.Bus.Publish(event.Message{Text: res.Msg, Kind: domain.MessageBasic, Entity: s.playerID})
	}
	if res.Intent != nil {
		if err := s.Game.Submit(res.Intent); err != nil {
			s.log.WithError(err).WithField("action", cmd.Action).Error("Intent failed")
		}
	}

	s.publishUpdate()
}

// publishUpdate рассылает каждому подписчику его собственный снимок.
func (s *GameService) publishUpdate() {
	logs := s.Game.DrainLogs()
	feed := s.Hub.DrainFeed()

	for _, id := range s.Hub.Subscribers() {
		if !s.Game.Store.Exists(id) {
			continue
		}
		resp := s.Game.BuildStateFor(id, logs)
		resp.Events = feed
		s.Hub.SendTo(id, *resp)
	}
}

// Save сохраняет снимок игры. Вызывать из цикла (через Inspect) или после
// его остановки.
func (s *GameService) Save(ctx context.Context) (string, error) {
	if s.Snapshots == nil {
		return "", errors.New("snapshot store is not configured")
	}
	snap, err := s.Game.Snapshot()
	if err != nil {
		return "", err
	}
	id, err := s.Snapshots.Save(ctx, snap)
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"snapshot_id": id,
		"global_time": snap.GlobalTime,
		"entities":    len(snap.Entities),
	}).Info("Snapshot saved")
	return id, nil
}
