package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const (
	scenarioTypeName = "scenario"
	callTypeName     = "call"
)

// Scenario is a scripted content session.
type Scenario struct {
	Name          string
	Version       string
	Locale        string
	Unimplemented []string
	Steps         []Step
}

// Step is one scripted action.
type Step struct {
	Kind string
	Args map[string]any
}

// call lets a script attach expectations to the step it just added.
type call struct {
	scenario  *Scenario
	stepIndex int
}

// LoadScenarioFromFile runs a Lua file and returns the Scenario it builds.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := runChunk(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

// LoadScenario runs Lua source and returns the Scenario it builds.
func LoadScenario(name, source string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadBuffer(state, source, name, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := runChunk(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = name
	}
	return scenario, nil
}

func newState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerLuaTypes(state)
	return state
}

func runChunk(state *lua.State) (*Scenario, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	return scenario, nil
}

func registerLuaTypes(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	lua.NewMetaTable(state, callTypeName)
	state.NewTable()
	lua.SetFunctions(state, callMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{{Name: "new", Function: scenarioNew}}, 0)
	state.SetGlobal("Scenario")
}

// scenarioNew is Scenario.new(name, {version=, locale=, unimplemented={...}}).
func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	opts := optionalTable(state, 2)
	scenario := &Scenario{Name: name, Version: "2004"}
	if v, ok := opts["version"]; ok {
		scenario.Version = formatValue(v)
	}
	if v, ok := opts["locale"].(string); ok {
		scenario.Locale = v
	}
	if groups, ok := opts["unimplemented"].([]any); ok {
		for _, g := range groups {
			scenario.Unimplemented = append(scenario.Unimplemented, formatValue(g))
		}
	}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "load", Function: scenarioLoad},
	{Name: "initialize", Function: scenarioVerb("initialize")},
	{Name: "terminate", Function: scenarioVerb("terminate")},
	{Name: "commit", Function: scenarioVerb("commit")},
	{Name: "get", Function: scenarioGet},
	{Name: "set", Function: scenarioSet},
	{Name: "expect", Function: scenarioExpect},
	{Name: "expect_error", Function: scenarioExpectError},
	{Name: "expect_state", Function: scenarioExpectState},
	{Name: "expect_snapshot", Function: scenarioExpectSnapshot},
	{Name: "listen", Function: scenarioListen},
	{Name: "expect_events", Function: scenarioExpectEvents},
	{Name: "reset", Function: scenarioReset},
}

func scenarioLoad(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "load", map[string]any{"data": tableToMap(state, 2)})
	return 0
}

func scenarioVerb(kind string) lua.Function {
	return func(state *lua.State) int {
		scenario := checkScenario(state)
		return pushCall(state, scenario, appendStep(scenario, kind, nil))
	}
}

func scenarioGet(state *lua.State) int {
	scenario := checkScenario(state)
	element := lua.CheckString(state, 2)
	return pushCall(state, scenario, appendStep(scenario, "get", map[string]any{"element": element}))
}

func scenarioSet(state *lua.State) int {
	scenario := checkScenario(state)
	element := lua.CheckString(state, 2)
	lua.CheckAny(state, 3)
	value := formatValue(luaToGo(state, 3))
	return pushCall(state, scenario, appendStep(scenario, "set", map[string]any{"element": element, "value": value}))
}

// scenarioExpect is get with a required result.
func scenarioExpect(state *lua.State) int {
	scenario := checkScenario(state)
	element := lua.CheckString(state, 2)
	lua.CheckAny(state, 3)
	want := formatValue(luaToGo(state, 3))
	appendStep(scenario, "get", map[string]any{"element": element, "expect": want})
	return 0
}

func scenarioExpectError(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckAny(state, 2)
	code := formatValue(luaToGo(state, 2))
	appendStep(scenario, "expect_error", map[string]any{"code": code})
	return 0
}

func scenarioExpectState(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	appendStep(scenario, "expect_state", map[string]any{"state": name})
	return 0
}

// scenarioExpectSnapshot is expect_snapshot(jsonpath, value).
func scenarioExpectSnapshot(state *lua.State) int {
	scenario := checkScenario(state)
	path := lua.CheckString(state, 2)
	lua.CheckAny(state, 3)
	appendStep(scenario, "expect_snapshot", map[string]any{"path": path, "expect": luaToGo(state, 3)})
	return 0
}

func scenarioListen(state *lua.State) int {
	scenario := checkScenario(state)
	spec := lua.CheckString(state, 2)
	appendStep(scenario, "listen", map[string]any{"spec": spec})
	return 0
}

func scenarioExpectEvents(state *lua.State) int {
	scenario := checkScenario(state)
	spec := lua.CheckString(state, 2)
	count := lua.CheckInteger(state, 3)
	if count < 0 {
		lua.ArgumentError(state, 3, "event count must not be negative")
	}
	appendStep(scenario, "expect_events", map[string]any{"spec": spec, "count": count})
	return 0
}

func scenarioReset(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "reset", nil)
	return 0
}

var callMethods = []lua.RegistryFunction{
	{Name: "returns", Function: callReturns},
	{Name: "fails_with", Function: callFailsWith},
}

// callReturns requires the call's result.
func callReturns(state *lua.State) int {
	step := checkCall(state)
	lua.CheckAny(state, 2)
	step.Args["expect"] = formatValue(luaToGo(state, 2))
	state.PushValue(1)
	return 1
}

// callFailsWith requires the call to leave code in the last-error register.
func callFailsWith(state *lua.State) int {
	step := checkCall(state)
	lua.CheckAny(state, 2)
	step.Args["expect_error"] = formatValue(luaToGo(state, 2))
	state.PushValue(1)
	return 1
}

func checkCall(state *lua.State) *Step {
	ud := lua.CheckUserData(state, 1, callTypeName)
	c, ok := ud.(*call)
	if !ok || c == nil || c.stepIndex < 0 || c.stepIndex >= len(c.scenario.Steps) {
		lua.Errorf(state, "invalid call")
		return nil
	}
	step := &c.scenario.Steps[c.stepIndex]
	if step.Args == nil {
		step.Args = map[string]any{}
	}
	return step
}

func pushCall(state *lua.State, scenario *Scenario, stepIndex int) int {
	state.PushUserData(&call{scenario: scenario, stepIndex: stepIndex})
	lua.SetMetaTableNamed(state, callTypeName)
	return 1
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, data map[string]any) int {
	if scenario == nil {
		return -1
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
	return len(scenario.Steps) - 1
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo returns a slice for sequences (including the empty table) and a
// map otherwise.
func tableToGo(state *lua.State, index int) any {
	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}

	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 && math.Abs(value) < 1<<53 {
		return int(value)
	}
	return value
}
