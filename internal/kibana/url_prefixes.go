// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package kibana

const (
	// CoreAPI is the prefix for all Kibana Core API resources.
	CoreAPI = "/api/kibana"

	// SavedObjectsAPI is the prefix for all Kibana Saved Objects API resources.
	SavedObjectsAPI = "/api/saved_objects"

	// MachineLearningAPI is the prefix for all Kibana Machine Learning API resources.
	MachineLearningAPI = "/api/ml"

	// StatusAPI is the resource path for the Kibana status endpoint.
	StatusAPI = "/api/status"
)
