package workflow

// BuiltinDefinitions returns the set of built-in workflow definitions.
func BuiltinDefinitions() []Definition {
	return []Definition{
		deployWorkflow(),
		troubleshootWorkflow(),
		validateWorkflow(),
		upgradeWorkflow(),
	}
}

// BuiltinNames lists the built-in workflow names in catalog order.
func BuiltinNames() []string {
	defs := BuiltinDefinitions()
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}

// deployWorkflow defines the end-to-end O-RAN deployment pipeline:
// infrastructure → dependencies → configuration → network functions,
// then non-critical monitoring and optimization passes.
func deployWorkflow() Definition {
	return Definition{
		Name:        "deploy",
		Description: "End-to-end O-RAN deployment with Nephio R5",
		Stages: []Stage{
			{
				Name:           "infrastructure",
				Agent:          "nephio-infrastructure-agent",
				Task:           "provision O-Cloud infrastructure with 3 nodes for edge deployment",
				TimeoutSeconds: 600,
				Critical:       true,
			},
			{
				Name:           "dependencies",
				Agent:          "oran-nephio-dep-doctor",
				Task:           "validate all dependencies and check compatibility",
				TimeoutSeconds: 300,
				Critical:       true,
			},
			{
				Name:           "configuration",
				Agent:          "configuration-management-agent",
				Task:           "apply YANG models and Kpt packages for O-RAN components",
				TimeoutSeconds: 450,
				Critical:       true,
			},
			{
				Name:           "network-functions",
				Agent:          "oran-network-functions-agent",
				Task:           "deploy O-RAN CU, DU, and RU network functions",
				TimeoutSeconds: 900,
				Critical:       true,
			},
			{
				Name:           "monitoring",
				Agent:          "monitoring-analytics-agent",
				Task:           "setup comprehensive observability and monitoring",
				TimeoutSeconds: 300,
				Critical:       false,
			},
			{
				Name:           "optimization",
				Agent:          "performance-optimization-agent",
				Task:           "apply initial performance optimizations",
				TimeoutSeconds: 600,
				Critical:       false,
			},
		},
	}
}

// troubleshootWorkflow defines the issue diagnosis and remediation pipeline.
func troubleshootWorkflow() Definition {
	return Definition{
		Name:        "troubleshoot",
		Description: "Identify and resolve O-RAN issues",
		Stages: []Stage{
			{
				Name:           "diagnosis",
				Agent:          "monitoring-analytics-agent",
				Task:           "analyze system metrics and identify issues",
				TimeoutSeconds: 300,
				Critical:       true,
			},
			{
				Name:           "root-cause",
				Agent:          "performance-optimization-agent",
				Task:           "perform root cause analysis on identified issues",
				TimeoutSeconds: 450,
				Critical:       true,
			},
			{
				Name:           "remediation",
				Agent:          "configuration-management-agent",
				Task:           "apply configuration fixes based on root cause analysis",
				TimeoutSeconds: 300,
				Critical:       true,
			},
			{
				Name:           "verification",
				Agent:          "monitoring-analytics-agent",
				Task:           "verify that issues are resolved",
				TimeoutSeconds: 300,
				Critical:       true,
			},
		},
	}
}

// validateWorkflow defines the security and compliance validation pipeline.
func validateWorkflow() Definition {
	return Definition{
		Name:        "validate",
		Description: "Validate security and compliance",
		Stages: []Stage{
			{
				Name:           "security-scan",
				Agent:          "security-compliance-agent",
				Task:           "perform comprehensive security assessment",
				TimeoutSeconds: 600,
				Critical:       true,
			},
			{
				Name:           "dependency-check",
				Agent:          "oran-nephio-dep-doctor",
				Task:           "validate all dependencies for vulnerabilities",
				TimeoutSeconds: 300,
				Critical:       true,
			},
			{
				Name:           "performance-baseline",
				Agent:          "performance-optimization-agent",
				Task:           "establish performance baselines and validate SLAs",
				TimeoutSeconds: 450,
				Critical:       false,
			},
		},
	}
}

// upgradeWorkflow defines the component upgrade pipeline.
func upgradeWorkflow() Definition {
	return Definition{
		Name:        "upgrade",
		Description: "Upgrade O-RAN components",
		Stages: []Stage{
			{
				Name:           "pre-check",
				Agent:          "oran-nephio-dep-doctor",
				Task:           "validate upgrade compatibility and dependencies",
				TimeoutSeconds: 300,
				Critical:       true,
			},
			{
				Name:           "backup",
				Agent:          "configuration-management-agent",
				Task:           "backup current configurations and state",
				TimeoutSeconds: 300,
				Critical:       true,
			},
			{
				Name:           "upgrade-infra",
				Agent:          "nephio-infrastructure-agent",
				Task:           "upgrade infrastructure components",
				TimeoutSeconds: 600,
				Critical:       true,
			},
			{
				Name:           "upgrade-nf",
				Agent:          "oran-network-functions-agent",
				Task:           "upgrade network functions to new versions",
				TimeoutSeconds: 900,
				Critical:       true,
			},
			{
				Name:           "validate",
				Agent:          "monitoring-analytics-agent",
				Task:           "validate upgrade success and system health",
				TimeoutSeconds: 300,
				Critical:       true,
			},
		},
	}
}
