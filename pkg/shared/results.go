package shared

import (
	"encoding/json"
	"fmt"
)

// GenericResult is a universal view of a single operation outcome.
type GenericResult struct {
	Args    interface{} `json:"args"`
	Result  interface{} `json:"result"`
	Status  string      `json:"status"`
	Message string      `json:"message"`
}

// GenericLaunchesResult wraps outcomes of one or more operation launches.
type GenericLaunchesResult struct {
	Launches []GenericResult `json:"launches"`
}

// RepositoryParams holds identification and clone links of a single repository.
type RepositoryParams struct {
	Namespace string `json:"namespace"`
	RepoName  string `json:"repo_name"`
	HTTPLink  string `json:"http_link"`
	SSHLink   string `json:"ssh_link"`
}

// PrintResultAsJSON prints the result to stdout as indented JSON.
func PrintResultAsJSON(result interface{}) {
	data, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		fmt.Printf("failed to marshal result: %v\n", err)
		return
	}
	fmt.Println(string(data))
}
