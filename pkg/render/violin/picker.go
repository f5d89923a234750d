package violin

const pickerCSS = `
    path.violin { transition: stroke-width 0.2s ease; }
    path.violin:hover { stroke-width: 2; }`

// pickerJS opens a hidden colour input at the pointer when a violin is
// clicked and clicks it as soon as it is mounted. On change every element
// sharing the violin's id is recoloured, keeping the alpha suffix of the
// old fill, the new colour is posted to the root's data-recolor endpoint,
// and the input is removed.
const pickerJS = `
    (function () {
      if (window.flowplotViolinPicker) return;
      window.flowplotViolinPicker = true;

      function open(event, violin) {
        var hex = violin.getAttribute("fill") || "#000000";
        var svg = violin.ownerSVGElement;
        var endpoint = svg ? svg.getAttribute("data-recolor") : null;
        document.querySelectorAll("#violin-color").forEach(function (x) { x.remove(); });

        var input = document.createElementNS("http://www.w3.org/1999/xhtml", "input");
        input.id = "violin-color";
        input.type = "color";
        input.value = hex.length > 7 ? hex.slice(0, 7) : hex;
        Object.assign(input.style, {
          left: event.pageX + "px",
          top: event.pageY + "px",
          visibility: "hidden",
          pointerEvents: "none",
          position: "absolute",
          transform: "translateY(-100%)",
          zIndex: "3"
        });

        input.addEventListener("change", function () {
          var color = input.value + hex.slice(7);
          document.querySelectorAll("#" + CSS.escape(violin.id)).forEach(function (el) {
            el.setAttribute("fill", color);
            el.setAttribute("stroke", color);
          });
          if (endpoint) {
            fetch(endpoint.replace("{id}", encodeURIComponent(violin.id)), {
              method: "POST",
              headers: { "Content-Type": "application/json" },
              body: JSON.stringify({ color: input.value })
            });
          }
          input.remove();
        });

        (document.body || document.documentElement).appendChild(input);
        input.click();
      }

      document.addEventListener("click", function (event) {
        var target = event.target;
        var violin = target && target.closest ? target.closest("path.violin") : null;
        if (violin) open(event, violin);
      });
    })();`
