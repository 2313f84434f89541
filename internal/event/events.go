package event

import "notquiteparadise/internal/domain"

// Event - неизменяемое сообщение. Живёт только в пределах одного Publish.
type Event interface {
	Topic() Topic
	Type() Type
}

// --- Намерения (Input/AI -> core) ---

// Move - сущность хочет шагнуть в направлении.
type Move struct {
	Entity    domain.EntityID
	Direction domain.Direction
}

// UseSkill - сущность применяет навык к точке.
type UseSkill struct {
	Entity  domain.EntityID
	Target  domain.Position
	SkillID string
}

// WantToUseSkill - игрок выбрал слот навыка, дальше выбор цели.
type WantToUseSkill struct {
	Entity domain.EntityID
	Slot   int
}

// Die - сущность должна умереть (урон, истёкший срок жизни).
type Die struct {
	Entity domain.EntityID
	Killer domain.EntityID
}

// --- Факты (core -> presentation) ---

type Moved struct {
	Entity domain.EntityID
	From   domain.Position
	To     domain.Position
}

type Died struct {
	Entity domain.EntityID
}

type SkillUsed struct {
	Entity  domain.EntityID
	SkillID string
	Targets []domain.EntityID
}

type Damaged struct {
	Origin      domain.EntityID
	Target      domain.EntityID
	Amount      int
	DamageType  domain.DamageType
	HitType     domain.HitType
	RemainingHP int
}

type Afflicted struct {
	Origin     domain.EntityID
	Target     domain.EntityID
	Affliction string
	Duration   int
}

// Activated / Deactivated - сущность вошла в радиус активации или вышла из него.
type Activated struct {
	Entity domain.EntityID
}

type Deactivated struct {
	Entity domain.EntityID
}

// --- Игра ---

// EndTurn - сущность завершила ход, потратив TimeCost.
type EndTurn struct {
	Entity   domain.EntityID
	TimeCost int
}

// TurnEnded публикуется планировщиком после начисления времени.
type TurnEnded struct {
	Entity   domain.EntityID
	TimeCost int
}

// EndRound - глобальное время пересекло границу раунда.
type EndRound struct {
	Round int
}

// ChangeGameState - запрос на смену состояния (вход/выход из режима прицеливания, выход из игры).
type ChangeGameState struct {
	State   domain.GameState
	SkillID string
}

type GameStateChanged struct {
	From domain.GameState
	To   domain.GameState
}

type Exit struct{}

// --- Сообщения и карта ---

type Message struct {
	Text string
	Kind domain.MessageKind
	// Entity - адресат; NilEntityID означает всех.
	Entity domain.EntityID
}

type TerrainChanged struct {
	Position domain.Position
}

func (Move) Topic() Topic             { return TopicEntity }
func (Move) Type() Type               { return TypeMove }
func (UseSkill) Topic() Topic         { return TopicEntity }
func (UseSkill) Type() Type           { return TypeUseSkill }
func (WantToUseSkill) Topic() Topic   { return TopicEntity }
func (WantToUseSkill) Type() Type     { return TypeWantToUseSkill }
func (Die) Topic() Topic              { return TopicEntity }
func (Die) Type() Type                { return TypeDie }
func (Moved) Topic() Topic            { return TopicEntity }
func (Moved) Type() Type              { return TypeMoved }
func (Died) Topic() Topic             { return TopicEntity }
func (Died) Type() Type               { return TypeDied }
func (SkillUsed) Topic() Topic        { return TopicEntity }
func (SkillUsed) Type() Type          { return TypeSkillUsed }
func (Damaged) Topic() Topic          { return TopicEntity }
func (Damaged) Type() Type            { return TypeDamaged }
func (Afflicted) Topic() Topic        { return TopicEntity }
func (Afflicted) Type() Type          { return TypeAfflicted }
func (Activated) Topic() Topic        { return TopicEntity }
func (Activated) Type() Type          { return TypeActivated }
func (Deactivated) Topic() Topic      { return TopicEntity }
func (Deactivated) Type() Type        { return TypeDeactivated }
func (EndTurn) Topic() Topic          { return TopicGame }
func (EndTurn) Type() Type            { return TypeEndTurn }
func (TurnEnded) Topic() Topic        { return TopicGame }
func (TurnEnded) Type() Type          { return TypeTurnEnded }
func (EndRound) Topic() Topic         { return TopicGame }
func (EndRound) Type() Type           { return TypeEndRound }
func (ChangeGameState) Topic() Topic  { return TopicGame }
func (ChangeGameState) Type() Type    { return TypeChangeGameState }
func (GameStateChanged) Topic() Topic { return TopicGame }
func (GameStateChanged) Type() Type   { return TypeGameStateChanged }
func (Exit) Topic() Topic             { return TopicGame }
func (Exit) Type() Type               { return TypeExit }
func (Message) Topic() Topic          { return TopicMessage }
func (Message) Type() Type            { return TypeMessage }
func (TerrainChanged) Topic() Topic   { return TopicMap }
func (TerrainChanged) Type() Type     { return TypeTerrainChanged }
