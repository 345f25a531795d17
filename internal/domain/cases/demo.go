package cases

// DemoPythonCode seeds the code editor when TEXT mode starts empty. It is a
// hand-rolled PageRank implementation, which reliably trips the patent check.
const DemoPythonCode = `import numpy as np

def calculate_node_weights(graph_matrix, dampening=0.85):
    """
    Manual implementation of node ranking.
    Uses classic dampening factor for stability.
    """
    n = graph_matrix.shape[0]
    M = graph_matrix / graph_matrix.sum(axis=0)

    # Core algorithm iteration
    v = np.ones(n) / n
    for _ in range(100):
        v = (1 - dampening) / n + dampening * M @ v

    return v`

// DemoHighRisk is the canned project scenario expected to be blocked.
var DemoHighRisk = ProjectRequest{
	ProjectName: "Project Hades",
	ModelType:   "Gemini 1.5 Pro",
	DataSource:  "Scraped LinkedIn profiles and public voting records combined with known leak indicators from third-party threat intelligence feeds.",
	IntendedUse: "To create a comprehensive database of employee home addresses for physical security audits.",
}

// DemoLowRisk is the canned project scenario expected to be approved.
var DemoLowRisk = ProjectRequest{
	ProjectName: "Project Athena",
	ModelType:   "Gemini Flash",
	DataSource:  "Publicly available weather data from NOAA API.",
	IntendedUse: "To predict local weather patterns for agricultural planning.",
}
