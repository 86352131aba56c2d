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
Package config loads BrandForge's process configuration.

Configuration comes from environment variables, with BRANDFORGE_-prefixed
names for application settings and the providers' canonical names for
credentials (GEMINI_API_KEY, AWS_ACCESS_KEY_ID, AZURE_STORAGE_ACCOUNT, and
so on). Everything optional has a default; Load never touches the network.

Cloud credentials can additionally be resolved from AWS Secrets Manager via
SecretsResolver when BRANDFORGE_SECRETS_ARN is set. Secret values only fill
fields the environment left empty.

The package also owns the brand guidelines that drive compliance checking:
a built-in outdoor-brand default set, overridable per deployment with a
YAML file named by BRANDFORGE_GUIDELINES_FILE.
*/
package config
