// Package harness runs YAML conformance scenarios against the task list
// View Controller.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	setup:
//	  - "Existing task"
//	steps:
//	  - action: add
//	    text: "Buy milk"
//	    expect:
//	      visible: ["Buy milk", "Existing task"]
//	      stats: { total: 2, completed: 0, active: 2 }
//	  - action: toggle
//	    id: task-0002
//	    expect:
//	      error: ""
//	      completed: ["Buy milk"]
//	assertions:
//	  - type: trace_count
//	    action: add
//	    count: 1
//	  - type: final_state
//	    expect:
//	      stored: ["Buy milk", "Existing task"]
//
// # Actions
//
//   - refresh, add (text), edit (id, text), toggle (id), delete (id),
//     clear_completed, set_filter (filter): the controller actions
//   - restart: open a new store and controller over the same storage,
//     as if the program had been restarted
//   - break_storage, heal_storage: make every storage call fail, or stop
//     failing
//
// # Deterministic Testing
//
// Every run uses a fresh kv.Memory, a testutil.DeterministicClock and a
// testutil.SequentialIDGenerator, so task ids are task-0001, task-0002, ...
// in creation order (setup tasks included) and traces are identical across
// runs. RunWithGolden compares the trace against
// testdata/golden/<name>.golden.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/buy_milk.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, msg := range result.Errors {
//	    log.Println(msg)
//	}
package harness
