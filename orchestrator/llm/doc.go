// Copyright 2025 BrandForge
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package llm defines the provider interfaces the creative pipeline talks to.

Two capabilities are separated because they have different providers in
practice: Provider covers text completion (compliance judgments and message
rewriting) and ImageGenerator covers campaign imagery. Gemini implements
both; Bedrock implements completion only and exists for AWS-native
deployments where IAM authentication is preferred over API keys.

Provider selection happens once at startup in the orchestrator package,
driven by which credentials the environment carries.
*/
package llm
