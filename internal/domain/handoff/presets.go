package handoff

// Canonical agent names for the built-in Nephio/O-RAN pipeline.
const (
	AgentInfrastructure = "nephio-infrastructure-agent"
	AgentDepDoctor      = "oran-nephio-dep-doctor-agent"
	AgentConfiguration  = "configuration-management-agent"
	AgentNetworkFns     = "oran-network-functions-agent"
	AgentMonitoring     = "monitoring-analytics-agent"
	AgentDataAnalytics  = "data-analytics-agent"
	AgentPerformance    = "performance-optimization-agent"
	AgentTesting        = "testing-validation-agent"
	AgentSecurity       = "security-compliance-agent"
	AgentOrchestrator   = "oran-nephio-orchestrator-agent"
)

// BuiltinTable returns the declared hand-off topology for the built-in
// agents. Stage numbers define the canonical pipeline order; security and
// the meta-orchestrator sit at the cross-cutting stage and may engage
// anywhere.
func BuiltinTable() Table {
	return Table{
		AgentInfrastructure: {
			Name:          AgentInfrastructure,
			AcceptsFrom:   []string{"initial", AgentSecurity},
			HandsOffTo:    AgentDepDoctor,
			WorkflowStage: 1,
		},
		AgentDepDoctor: {
			Name:          AgentDepDoctor,
			AcceptsFrom:   []string{AgentInfrastructure, AgentSecurity},
			HandsOffTo:    AgentConfiguration,
			WorkflowStage: 2,
		},
		AgentConfiguration: {
			Name:          AgentConfiguration,
			AcceptsFrom:   []string{AgentDepDoctor},
			HandsOffTo:    AgentNetworkFns,
			WorkflowStage: 3,
		},
		AgentNetworkFns: {
			Name:          AgentNetworkFns,
			AcceptsFrom:   []string{AgentConfiguration},
			HandsOffTo:    AgentMonitoring,
			WorkflowStage: 4,
		},
		AgentMonitoring: {
			Name:          AgentMonitoring,
			AcceptsFrom:   []string{AgentNetworkFns},
			HandsOffTo:    AgentDataAnalytics,
			WorkflowStage: 5,
		},
		AgentDataAnalytics: {
			Name:          AgentDataAnalytics,
			AcceptsFrom:   []string{AgentMonitoring},
			HandsOffTo:    AgentPerformance,
			WorkflowStage: 6,
		},
		AgentPerformance: {
			Name:          AgentPerformance,
			AcceptsFrom:   []string{AgentMonitoring, AgentDataAnalytics},
			HandsOffTo:    AgentTesting,
			WorkflowStage: 7,
		},
		AgentTesting: {
			Name:          AgentTesting,
			AcceptsFrom:   []string{AgentDepDoctor, AgentPerformance},
			WorkflowStage: 8,
		},
		AgentSecurity: {
			Name:          AgentSecurity,
			AcceptsFrom:   []string{"initial"},
			HandsOffTo:    AgentInfrastructure,
			WorkflowStage: CrossCuttingStage,
		},
		AgentOrchestrator: {
			Name:          AgentOrchestrator,
			AcceptsFrom:   []string{"initial"},
			WorkflowStage: CrossCuttingStage,
		},
	}
}

// BuiltinValidator returns the validator for the built-in allowed-handoff
// policy: each agent's permitted targets plus the terminal agent.
func BuiltinValidator() *Validator {
	allowed := map[string][]string{
		AgentInfrastructure: {AgentDepDoctor},
		AgentDepDoctor:      {AgentConfiguration, AgentTesting},
		AgentConfiguration:  {AgentNetworkFns},
		AgentNetworkFns:     {AgentMonitoring},
		AgentMonitoring:     {AgentDataAnalytics, AgentPerformance},
		AgentDataAnalytics:  {AgentPerformance},
		AgentPerformance:    {AgentTesting},
		AgentTesting:        {},
		AgentSecurity:       {AgentInfrastructure, AgentDepDoctor},
		AgentOrchestrator: {
			AgentInfrastructure, AgentDepDoctor, AgentConfiguration,
			AgentNetworkFns, AgentMonitoring, AgentDataAnalytics,
			AgentPerformance, AgentTesting, AgentSecurity, AgentOrchestrator,
		},
	}
	return NewValidator(allowed, AgentTesting)
}
