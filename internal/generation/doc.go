// Package generation implements the question-generation pipeline: planning
// single-vs-batched execution, building prompts, invoking the external
// generative model, and validating and assembling its structured output.
// The model is treated as an untrusted black box; this package is the sole
// correctness boundary for its responses.
package generation
