package svm

import (
	"sort"
	"strconv"
	"strings"

	"github.com/magiconair/properties"

	"github.com/YuminosukeSato/osvm/pkg/errors"
)

// weightKeyPrefix introduces per-class weights, e.g. "weight.1 = 2.5".
const weightKeyPrefix = "weight."

// LoadProperties reads a .properties file and applies it to p.
//
// Recognized keys: svm_type, kernel_type, degree, gamma, coef0, cache_size,
// eps, cost, nu, p, shrinking, probability, nr_fold, beta, near_pressure,
// far_pressure, rejected_label, openset_min_probability, neg_labels,
// exhaustive_open and weight.<label>.
func LoadProperties(path string, p *Parameter) error {
	props, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return errors.NewIOError("open config file", path, err)
	}
	return ApplyProperties(props, p)
}

// ApplyProperties applies already parsed properties to p. Unknown keys and
// malformed values are rejected.
func ApplyProperties(props *properties.Properties, p *Parameter) error {
	keys := props.Keys()
	sort.Strings(keys)

	for _, key := range keys {
		raw, _ := props.Get(key)
		value := strings.TrimSpace(raw)
		if err := applyProperty(p, key, value); err != nil {
			return err
		}
	}
	return nil
}

func applyProperty(p *Parameter, key, value string) error {
	var err error
	switch key {
	case "svm_type":
		var v int
		if v, err = strconv.Atoi(value); err == nil {
			p.Type = Type(v)
		}
	case "kernel_type":
		var v int
		if v, err = strconv.Atoi(value); err == nil {
			p.Kernel = Kernel(v)
		}
	case "degree":
		p.Degree, err = strconv.Atoi(value)
	case "gamma":
		p.Gamma, err = strconv.ParseFloat(value, 64)
	case "coef0":
		p.Coef0, err = strconv.ParseFloat(value, 64)
	case "cache_size":
		p.CacheSize, err = strconv.ParseFloat(value, 64)
	case "eps":
		p.Eps, err = strconv.ParseFloat(value, 64)
	case "cost":
		p.C, err = strconv.ParseFloat(value, 64)
	case "nu":
		p.Nu, err = strconv.ParseFloat(value, 64)
	case "p":
		p.P, err = strconv.ParseFloat(value, 64)
	case "shrinking":
		p.Shrinking, err = strconv.Atoi(value)
	case "probability":
		p.Probability, err = strconv.Atoi(value)
	case "nr_fold":
		var v int
		if v, err = strconv.Atoi(value); err == nil {
			return p.SetCrossValidation(v)
		}
	case "beta":
		p.Beta, err = strconv.ParseFloat(value, 64)
	case "near_pressure":
		p.NearPressure, err = strconv.ParseFloat(value, 64)
	case "far_pressure":
		p.FarPressure, err = strconv.ParseFloat(value, 64)
	case "rejected_label":
		p.RejectedLabel, err = strconv.Atoi(value)
	case "openset_min_probability":
		p.OpenSetMinProbability, err = strconv.ParseFloat(value, 64)
	case "neg_labels":
		p.NegativeLabels, err = strconv.ParseBool(value)
	case "exhaustive_open":
		p.ExhaustiveOpen, err = strconv.ParseBool(value)
	default:
		if !strings.HasPrefix(key, weightKeyPrefix) {
			return errors.NewValidationError("config", "unknown key", key)
		}
		label, weight, werr := ParseWeight(strings.TrimPrefix(key, weightKeyPrefix) + ":" + value)
		if werr != nil {
			return werr
		}
		p.AddWeight(label, weight)
	}

	if err != nil {
		return errors.NewValidationError(key, "malformed value", value)
	}
	return nil
}
