package models

type Action string

const (
	ActionNone      Action = "NO_ACTION"
	ActionOpenLong  Action = "OPEN_LONG"
	ActionOpenShort Action = "OPEN_SHORT"
)

// Side для открытия; для ActionNone пустая.
func (a Action) Side() Side {
	switch a {
	case ActionOpenLong:
		return SideBuy
	case ActionOpenShort:
		return SideSell
	default:
		return ""
	}
}

// Signal — решение SignalEngine по символу за один цикл.
type Signal struct {
	Symbol       string
	Action       Action
	Price        float64
	StopDistance float64
	StrategyID   int64
	Reason       string
}

func NoAction(symbol, reason string) Signal {
	return Signal{Symbol: symbol, Action: ActionNone, Reason: reason}
}

// SymbolState — состояние символа в машине состояний движка.
type SymbolState string

const (
	StateIdle       SymbolState = "IDLE"
	StateArmed      SymbolState = "ARMED"
	StatePositioned SymbolState = "POSITIONED"
)
