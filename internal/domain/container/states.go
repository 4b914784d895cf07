package container

// State is a container's position in the depot-to-depot lifecycle. The
// values are the wire strings stored in the containers collection.
type State string

const (
	StateAtOriginDepot          State = "at_origin_depot"
	StateInTransitToRailRamp    State = "in_transit_to_rail_ramp"
	StateAtOriginRailRamp       State = "at_origin_rail_ramp"
	StateInTransitRail          State = "in_transit_rail"
	StateInTransitToTerminal    State = "in_transit_to_terminal"
	StateAtOriginTerminal       State = "at_origin_terminal"
	StateLoadedOnVessel         State = "loaded_on_vessel"
	StateInTransitOcean         State = "in_transit_ocean"
	StateAtDestinationTerminal  State = "at_destination_terminal"
	StateInTransitFromTerminal  State = "in_transit_from_terminal"
	StateAtDestinationRailRamp  State = "at_destination_rail_ramp"
	StateInTransitRailToDepot   State = "in_transit_rail_to_depot"
	StateInTransitToDepot       State = "in_transit_to_depot"
	StateAtDestinationDepot     State = "at_destination_depot"
)

// validTransitions is the full journey diagram, rail branches included.
// Completing a journey loops back: at_destination_depot resets to
// at_origin_depot when a new journey is assigned.
var validTransitions = map[State][]State{
	StateAtOriginDepot:         {StateInTransitToTerminal, StateInTransitToRailRamp},
	StateInTransitToRailRamp:   {StateAtOriginRailRamp},
	StateAtOriginRailRamp:      {StateInTransitRail},
	StateInTransitRail:         {StateInTransitToTerminal},
	StateInTransitToTerminal:   {StateAtOriginTerminal},
	StateAtOriginTerminal:      {StateLoadedOnVessel},
	StateLoadedOnVessel:        {StateInTransitOcean},
	StateInTransitOcean:        {StateAtDestinationTerminal},
	StateAtDestinationTerminal: {StateInTransitToDepot, StateInTransitFromTerminal},
	StateInTransitFromTerminal: {StateAtDestinationRailRamp},
	StateAtDestinationRailRamp: {StateInTransitRailToDepot},
	StateInTransitRailToDepot:  {StateInTransitToDepot},
	StateInTransitToDepot:      {StateAtDestinationDepot},
	StateAtDestinationDepot:    {StateAtOriginDepot},
}

// CanTransition reports whether the state machine allows from → to.
func CanTransition(from, to State) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Stationary reports whether the state is a dwell state (no route installed).
func (s State) Stationary() bool {
	switch s {
	case StateAtOriginDepot, StateAtOriginRailRamp, StateAtOriginTerminal,
		StateLoadedOnVessel, StateAtDestinationTerminal,
		StateAtDestinationRailRamp, StateAtDestinationDepot:
		return true
	}
	return false
}
