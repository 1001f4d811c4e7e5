package walk

import (
	"strings"

	"cayc/ast"
	"cayc/common"
	"cayc/report"
	"cayc/types"
)

// resolveOverload selects the overload of group that a call with args invokes
// and coerces the arguments to its parameter types.  It returns the selected
// method and the index of the first argument packed into its variadic
// parameter or -1 if the call does not expand variadic arguments.
//
// Resolution happens in two phases.  The first considers only overloads whose
// arity matches the call exactly.  The second, run only when the first finds
// nothing applicable, expands variadic parameters.  Within a phase, the most
// specific applicable overload is selected.  Literal narrowing never makes an
// overload applicable.
func (w *Walker) resolveOverload(group *common.MethodGroup, displayName string, args []ast.ASTExpr, span *report.TextSpan) (*common.MethodInfo, int) {
	argTypes := make([]types.Type, len(args))
	for i, arg := range args {
		w.checkValue(arg)
		argTypes[i] = arg.Type()
	}

	expanded := false
	applicable := filterApplicable(group.Overloads, argTypes, false)
	if len(applicable) == 0 {
		expanded = true
		applicable = filterApplicable(group.Overloads, argTypes, true)
	}

	if len(applicable) == 0 {
		w.error(
			report.OverloadError,
			span,
			"no overload of `%s` matches (%s)%s",
			displayName,
			types.ReprList(argTypes),
			candidateList(group.Overloads),
		)
	}

	best := mostSpecific(applicable, expanded, len(args))
	if best == nil {
		w.error(
			report.OverloadError,
			span,
			"call to `%s` with (%s) is ambiguous%s",
			displayName,
			types.ReprList(argTypes),
			candidateList(applicable),
		)
	}

	params := effectiveParams(best, expanded, len(args))
	for i, arg := range args {
		args[i] = w.coerce(arg, params[i])
	}

	if expanded {
		return best, len(best.Params) - 1
	}

	return best, -1
}

// filterApplicable returns the overloads applicable to arguments of argTypes.
// If expanded is true, only variadic overloads are considered and their
// variadic parameter is expanded to match the remaining arguments.
func filterApplicable(overloads []*common.MethodInfo, argTypes []types.Type, expanded bool) []*common.MethodInfo {
	var applicable []*common.MethodInfo

outer:
	for _, mi := range overloads {
		if expanded {
			if !mi.Variadic || len(argTypes) < len(mi.Params)-1 {
				continue
			}
		} else if len(argTypes) != len(mi.Params) {
			continue
		}

		for i, param := range effectiveParams(mi, expanded, len(argTypes)) {
			if !types.Cast(argTypes[i], param) {
				continue outer
			}
		}

		applicable = append(applicable, mi)
	}

	return applicable
}

// effectiveParams returns the parameter types of mi as seen by a call with
// nargs arguments.  If expanded is true, the variadic parameter is replaced by
// as many copies of its element type as there are remaining arguments.
func effectiveParams(mi *common.MethodInfo, expanded bool, nargs int) []types.Type {
	if !expanded {
		return mi.Params
	}

	nfixed := len(mi.Params) - 1
	elemType := mi.Params[nfixed].(*types.ArrayType).IndexType()

	params := make([]types.Type, nargs)
	copy(params, mi.Params[:nfixed])
	for i := nfixed; i < nargs; i++ {
		params[i] = elemType
	}

	return params
}

// mostSpecific returns the applicable overload which is more specific than
// all the others or nil if there is no such overload.
func mostSpecific(applicable []*common.MethodInfo, expanded bool, nargs int) *common.MethodInfo {
	if len(applicable) == 1 {
		return applicable[0]
	}

	var best *common.MethodInfo
	for _, x := range applicable {
		xparams := effectiveParams(x, expanded, nargs)

		isBest := true
		for _, y := range applicable {
			if x != y && !moreSpecific(xparams, effectiveParams(y, expanded, nargs)) {
				isBest = false
				break
			}
		}

		if isBest {
			if best != nil {
				return nil
			}

			best = x
		}
	}

	return best
}

// moreSpecific returns whether the parameter list xparams is strictly more
// specific than yparams: every parameter of x converts to the corresponding
// parameter of y and the lists differ.
func moreSpecific(xparams, yparams []types.Type) bool {
	identical := true
	for i, xp := range xparams {
		if !types.Cast(xp, yparams[i]) {
			return false
		}

		if !xp.Equals(yparams[i]) {
			identical = false
		}
	}

	return !identical
}

// candidateList formats the signatures of overloads for an error message.
func candidateList(overloads []*common.MethodInfo) string {
	if len(overloads) == 0 {
		return ""
	}

	sigs := make([]string, len(overloads))
	for i, mi := range overloads {
		sigs[i] = mi.Signature()
	}

	return ": candidates are " + strings.Join(sigs, ", ")
}
